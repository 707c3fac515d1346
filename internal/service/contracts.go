package service

import (
	"context"
	"time"

	"github.com/umdbot/migration_bot/internal/model"
)

// UserProvider отдаёт зарегистрированного пользователя или *model.UserNotFoundError
type UserProvider interface {
	User(ctx context.Context, id int64) (model.User, error)
}

// UserRepository хранилище пользователей
type UserRepository interface {
	UserProvider
	SaveUser(ctx context.Context, user model.User) error
}

// AvailableSlotsProvider объединяет шаблоны с записями и оставляет слоты со свободными местами
type AvailableSlotsProvider interface {
	AvailableSlots(ctx context.Context, templates []*model.Slot) ([]*model.Slot, error)
}

// HasAvailableSlotsProvider проверяет есть ли среди шаблонов слот со свободным местом
type HasAvailableSlotsProvider interface {
	HasAvailableSlots(ctx context.Context, templates []*model.Slot) (bool, error)
}

// ReservedSlotsProvider возвращает только непустые слоты с их записями
type ReservedSlotsProvider interface {
	ReservedSlots(ctx context.Context, templates []*model.Slot) ([]*model.Slot, error)
}

// ReservedSlotProvider заполняет один слот текущими записями
type ReservedSlotProvider interface {
	ReservedSlot(ctx context.Context, template *model.Slot) (*model.Slot, error)
}

// SlotsRepository сохраняет слот целиком, заменяя прежний список записей
type SlotsRepository interface {
	SaveSlot(ctx context.Context, slot *model.Slot) error
}

// SlotStore всё, что нужно сценариям записи от хранилища
type SlotStore interface {
	AvailableSlotsProvider
	HasAvailableSlotsProvider
	ReservedSlotsProvider
	ReservedSlotProvider
	SlotsRepository
}

// TimeProvider источник текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider текущее время в часовом поясе офиса
type RealTimeProvider struct {
	Location *time.Location
}

func (p RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}

// Recorder метрики сценариев записи
type Recorder interface {
	ObserveOperation(operation string, err error, elapsed time.Duration)
	ReservationCreated(service model.Service)
	ReservationCanceled()
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, error, time.Duration) {}
func (nopRecorder) ReservationCreated(model.Service)               {}
func (nopRecorder) ReservationCanceled()                           {}
