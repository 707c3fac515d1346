package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/app"
	"github.com/umdbot/migration_bot/internal/config"
	"github.com/umdbot/migration_bot/internal/model"
	"github.com/umdbot/migration_bot/internal/repository"
	"github.com/umdbot/migration_bot/internal/service"
)

// Кириллических имён в gofakeit нет, берём из короткого списка
var (
	cyrLastNames  = []string{"Иванов", "Рахимов", "Каримов", "Саидов", "Алиев", "Юсупов", "Назаров", "Петренко"}
	cyrFirstNames = []string{"Алишер", "Бахтиёр", "Фарход", "Рустам", "Тимур", "Азиз", "Дилшод", "Олег"}
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	users := flag.Int("users", 50, "number of fake users")
	days := flag.Int("days", 5, "reserve slots on this many days from today")
	schedulePath := flag.String("schedule", "configs/schedule.toml", "schedule config")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is required")
	}

	logger := app.NewLogger("development", "info")
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := app.ConnectPostgres(ctx, dsn, 4)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	sched, err := config.LoadSchedule(*schedulePath)
	if err != nil {
		log.Fatalf("load schedule: %v", err)
	}
	factory, err := sched.SlotFactory()
	if err != nil {
		log.Fatalf("slot factory: %v", err)
	}
	tz := os.Getenv("TIMEZONE")
	if tz == "" {
		tz = "Europe/Moscow"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Fatalf("load timezone: %v", err)
	}
	hours, err := sched.WorkingHours(loc)
	if err != nil {
		log.Fatalf("working hours: %v", err)
	}

	clock := service.RealTimeProvider{Location: loc}
	userRepo := repository.NewUserRepository(pool)
	userService := service.NewUserService(userRepo, clock, logger)
	scheduling := service.NewSchedulingService(service.SchedulingDeps{
		Factory:       factory,
		Hours:         hours,
		Deadlines:     sched.Deadlines(),
		Users:         userRepo,
		Slots:         repository.NewReservationRepository(pool),
		LookAheadDays: sched.LookAheadDays,
		Clock:         clock,
	}, logger)

	gofakeit.Seed(time.Now().UnixNano())

	today := model.DateOf(clock.Now())
	reserved := 0
	for i := 0; i < *users; i++ {
		user, err := userService.Register(ctx, fakeUser(today))
		if err != nil {
			log.Fatalf("register user: %v", err)
		}

		if reserveSomewhere(ctx, scheduling, user.ID, today, *days) {
			reserved++
		}
	}

	logger.Info("Seed complete",
		zap.Int("users", *users),
		zap.Int("reservations", reserved))
}

func fakeUser(today time.Time) service.UserDraft {
	return service.UserDraft{
		ID:          gofakeit.Int64()&0xffffffff + 1,
		Username:    gofakeit.Username(),
		FullNameLat: gofakeit.LastName() + " " + gofakeit.FirstName(),
		FullNameCyr: gofakeit.RandomString(cyrLastNames) + " " + gofakeit.RandomString(cyrFirstNames),
		Citizenship: model.KnownCitizenships[gofakeit.Number(0, len(model.KnownCitizenships)-1)].String(),
		ArrivalDate: today.AddDate(0, 0, -gofakeit.Number(0, 30)),
	}
}

// reserveSomewhere записывает пользователя в случайное свободное окно ближайших дней
func reserveSomewhere(ctx context.Context, s *service.SchedulingService, userID int64, today time.Time, days int) bool {
	svc := model.Services[gofakeit.Number(0, len(model.Services)-1)]

	offsets := rangeInts(days)
	gofakeit.ShuffleInts(offsets)

	for _, offset := range offsets {
		date := today.AddDate(0, 0, offset)
		free, err := s.FreeSlots(ctx, date)
		if err != nil || len(free) == 0 {
			continue
		}

		slot := free[gofakeit.Number(0, len(free)-1)]
		err = s.ReserveSlot(ctx, userID, slot.Start, svc)
		if err == nil {
			return true
		}
		if !errors.Is(err, model.ErrMaxCapacityExceeded) && !errors.Is(err, model.ErrSlotModified) {
			log.Printf("reserve slot: %v", err)
		}
	}
	return false
}

func rangeInts(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
