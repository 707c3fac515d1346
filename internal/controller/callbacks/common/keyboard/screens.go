package keyboard

import (
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/umdbot/migration_bot/internal/controller/callbacks/callbacktypes"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/common/formatting"
	"github.com/umdbot/migration_bot/internal/model"
	"github.com/umdbot/migration_bot/internal/service"
)

// Agreement согласие на обработку персональных данных
func Agreement() *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("✅ Подтверждаю", callbacktypes.AgreePersonalData)).
		Build()
}

// Citizenships известные гражданства по три в ряд и "Другое"
func Citizenships() *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(model.KnownCitizenships))
	for i, c := range model.KnownCitizenships {
		buttons = append(buttons, Button(c.String(), callbacktypes.CitizenshipData(i)))
	}

	return NewBuilder().
		Grid(buttons, 3).
		Row(Button("🌍 Другое", callbacktypes.ChooseCitizenship+callbacktypes.OtherCitizenship)).
		Build()
}

// ProfileFields поля профиля, доступные для изменения
func ProfileFields() *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(
			Button("👤 Имя на латинице", callbacktypes.UpdateField+callbacktypes.FieldNameLat),
			Button("👤 Имя на кириллице", callbacktypes.UpdateField+callbacktypes.FieldNameCyr),
		).
		Row(
			Button("🌍 Гражданство", callbacktypes.UpdateField+callbacktypes.FieldCitizenship),
			Button("📅 Дата прибытия", callbacktypes.UpdateField+callbacktypes.FieldArrival),
		).
		Build()
}

// Services услуги по две в ряд
func Services() *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(model.Services))
	for _, s := range model.Services {
		buttons = append(buttons, Button(s.Label(), callbacktypes.ServiceData(s)))
	}
	return NewBuilder().Grid(buttons, 2).Build()
}

// Days дни со свободными окнами по четыре в ряд
func Days(svc model.Service, days []time.Time) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(days))
	for _, d := range days {
		buttons = append(buttons, Button(formatting.FormatDayButton(d), callbacktypes.DayData(svc, d)))
	}
	return NewBuilder().
		Grid(buttons, 4).
		AddBackButton(callbacktypes.ReserveStart).
		Build()
}

// Slots свободные окна дня по три в ряд
func Slots(svc model.Service, slots []service.FreeSlot) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(slots))
	for _, s := range slots {
		buttons = append(buttons, Button(formatting.FormatTimeRange(s.Start, s.End), callbacktypes.SlotData(svc, s.Start)))
	}
	return NewBuilder().
		Grid(buttons, 3).
		AddBackButton(callbacktypes.ServiceData(svc)).
		Build()
}

// ConfirmReservation подтверждение записи с возвратом к окнам дня
func ConfirmReservation(svc model.Service, start time.Time) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(
			ConfirmButton(callbacktypes.ConfirmData(svc, start)),
			BackButton(callbacktypes.DayData(svc, model.DateOf(start))),
		).
		Build()
}

// CancelReservation кнопка отмены под подтверждением записи
func CancelReservation(start time.Time) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("🚫 Отменить запись", callbacktypes.CancelData(start))).
		Build()
}
