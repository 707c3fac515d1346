package callbacktypes

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/state"
	"github.com/umdbot/migration_bot/internal/model"
	"github.com/umdbot/migration_bot/internal/schedule"
	"github.com/umdbot/migration_bot/internal/service"
)

// UserService регистрация и профиль
type UserService interface {
	IsRegistered(ctx context.Context, id int64) (bool, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	Register(ctx context.Context, draft service.UserDraft) (model.User, error)
	UpdateNameLat(ctx context.Context, id int64, value string) (model.User, error)
	UpdateNameCyr(ctx context.Context, id int64, value string) (model.User, error)
	UpdateCitizenship(ctx context.Context, id int64, value string) (model.User, error)
	UpdateArrivalDate(ctx context.Context, id int64, date time.Time) (model.User, error)
	UpdateUsername(ctx context.Context, id int64, username string) error
}

// SchedulingService поиск окон, запись и отмена
type SchedulingService interface {
	CheckDeadline(ctx context.Context, userID int64, svc model.Service) (bool, error)
	DaysWithFreeSlots(ctx context.Context, userID int64, startDate time.Time, svc model.Service) ([]time.Time, error)
	FreeSlots(ctx context.Context, date time.Time) ([]service.FreeSlot, error)
	ReserveSlot(ctx context.Context, userID int64, at time.Time, svc model.Service) error
	CancelReservation(ctx context.Context, userID int64, at time.Time) error
	Reservations(ctx context.Context, date time.Time) ([]service.ReservationRow, error)
	Slots(ctx context.Context, date time.Time) ([]service.SlotView, error)
}

// AdminService права администратора
type AdminService interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// Handler содержит общие зависимости для всех обработчиков
type Handler struct {
	UserService       UserService
	SchedulingService SchedulingService
	AdminService      AdminService
	StateManager      state.Store
	Deadlines         schedule.DeadlinePolicy
	Clock             service.TimeProvider
	Location          *time.Location
	Logger            *zap.Logger
}

// Today начало текущего дня в часовом поясе офиса
func (h *Handler) Today() time.Time {
	return model.DateOf(h.Clock.Now().In(h.Location))
}
