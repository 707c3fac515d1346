package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken  string
	DBDSN          string
	DBMaxConns     int32
	Environment    string
	LogLevel       string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	AdminIDs       []int64
	HTTPAddr       string
	ScheduleConfig string
	MigrationsDir  string
	RetentionDays  int
	Location       *time.Location
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    getEnv("ENV", "development"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		ScheduleConfig: getEnv("SCHEDULE_CONFIG", "configs/schedule.toml"),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "migrations"),
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	var err error
	if cfg.AdminIDs, err = ParseIDs(os.Getenv("ADMIN_IDS")); err != nil {
		return nil, fmt.Errorf("parse ADMIN_IDS: %w", err)
	}

	maxConns, err := getInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	cfg.DBMaxConns = int32(maxConns)

	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RetentionDays, err = getInt("RETENTION_DAYS", 180); err != nil {
		return nil, err
	}

	cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", "Europe/Moscow"))
	if err != nil {
		return nil, fmt.Errorf("load TIMEZONE: %w", err)
	}

	log.Printf("Config loaded (env=%s, admins=%d)\n", cfg.Environment, len(cfg.AdminIDs))

	return cfg, nil
}

// ParseIDs разбирает список Telegram ID через запятую
func ParseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
