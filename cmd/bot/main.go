package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/app"
	"github.com/umdbot/migration_bot/internal/config"
	"github.com/umdbot/migration_bot/internal/controller"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/callbacktypes"
	"github.com/umdbot/migration_bot/internal/controller/state"
	"github.com/umdbot/migration_bot/internal/metrics"
	"github.com/umdbot/migration_bot/internal/repository"
	"github.com/umdbot/migration_bot/internal/service"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)

	os.Exit(finish(logger, run(cfg, logger)))
}

// finish пишет итог работы и сбрасывает буфер логгера до выхода процесса
func finish(logger *zap.Logger, err error) int {
	code := 0
	if err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
		code = 1
	} else {
		logger.Info("Bot stopped")
	}

	_ = logger.Sync()
	return code
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting migration bot",
		zap.String("environment", cfg.Environment),
		zap.String("version", version),
		zap.String("timezone", cfg.Location.String()),
		zap.Int("admins", len(cfg.AdminIDs)))

	// ===== Расписание =====
	sched, err := config.LoadSchedule(cfg.ScheduleConfig)
	if err != nil {
		return err
	}
	factory, err := sched.SlotFactory()
	if err != nil {
		return err
	}
	hours, err := sched.WorkingHours(cfg.Location)
	if err != nil {
		return err
	}
	deadlines := sched.Deadlines()

	// ===== Хранилища =====
	pool, err := app.ConnectPostgres(ctx, cfg.DBDSN, cfg.DBMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("✅ Connected to PostgreSQL")

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	checks := map[string]app.HealthCheck{
		"postgres": pool.Ping,
	}

	var stateStore state.Store = state.NewManager()
	if cfg.RedisAddr != "" {
		rdb, err := app.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()

		stateStore = state.NewRedisStore(rdb, state.DefaultTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Info("✅ Dialog state stored in Redis", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Info("Dialog state stored in memory")
	}

	// ===== Метрики =====
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New("migration_bot", registry)

	// ===== Сервисы =====
	clock := service.RealTimeProvider{Location: cfg.Location}
	userRepo := repository.NewUserRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)

	userService := service.NewUserService(userRepo, clock, logger)
	schedulingService := service.NewSchedulingService(service.SchedulingDeps{
		Factory:       factory,
		Hours:         hours,
		Deadlines:     deadlines,
		Users:         userRepo,
		Slots:         reservationRepo,
		LookAheadDays: sched.LookAheadDays,
		Clock:         clock,
		Metrics:       recorder,
	}, logger)
	adminService := service.NewAdminService(cfg.AdminIDs, logger)

	// ===== Фоновые задачи =====
	scheduler := app.NewScheduler(reservationRepo, cfg.RetentionDays, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// ===== HTTP: health и метрики =====
	srv := app.NewHTTPServer(cfg.HTTPAddr, app.NewRouter(app.HTTPConfig{
		Env:      cfg.Environment,
		Version:  version,
		Gatherer: registry,
		Checks:   checks,
		Logger:   logger,
	}))
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", zap.Error(err))
		}
	}()

	// ===== Бот =====
	botController, err := controller.NewBotController(cfg.TelegramToken, &callbacktypes.Handler{
		UserService:       userService,
		SchedulingService: schedulingService,
		AdminService:      adminService,
		StateManager:      stateStore,
		Deadlines:         deadlines,
		Clock:             clock,
		Location:          cfg.Location,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	if err := botController.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично, бот работает и без него
		logger.Warn("Failed to register bot commands menu", zap.Error(err))
	}

	logger.Info("✅ Bot is running")
	return botController.Start(ctx)
}
