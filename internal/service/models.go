package service

import (
	"time"

	"github.com/umdbot/migration_bot/internal/model"
)

// FreeSlot свободное окно для показа пользователю
type FreeSlot struct {
	Start time.Time
	End   time.Time
}

// ReservationRow одна запись для выгрузки
type ReservationRow struct {
	SlotStart   time.Time
	SlotEnd     time.Time
	Service     model.Service
	UserID      int64
	Username    string
	FullNameLat string
	FullNameCyr string
	Citizenship string
	ArrivalDate time.Time
}

// SlotView заполненность слота для администратора
type SlotView struct {
	Start    time.Time
	End      time.Time
	Reserved int
	MaxSize  int
}

// UserDraft данные регистрации до проверки
type UserDraft struct {
	ID          int64
	Username    string
	FullNameLat string
	FullNameCyr string
	Citizenship string
	ArrivalDate time.Time
}
