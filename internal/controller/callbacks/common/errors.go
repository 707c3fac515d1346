package common

import (
	"errors"

	"github.com/umdbot/migration_bot/internal/model"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrAccessDenied  = errors.New("access denied")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return "❌ Вы ещё не зарегистрированы. Используйте /start для регистрации."
	case errors.Is(err, model.ErrSlotNotFound):
		return "😕 Это время уже занято или недоступно. Попробуйте снова: /reserve"
	case errors.Is(err, model.ErrMaxCapacityExceeded):
		return "😕 На это время больше нет мест. Попробуйте снова: /reserve"
	case errors.Is(err, model.ErrSlotAlreadyReserved):
		return "ℹ️ Вы уже записаны на это время."
	case errors.Is(err, model.ErrUserNotReserved):
		return "ℹ️ Запись не найдена, возможно она уже отменена."
	case errors.Is(err, model.ErrSlotModified):
		return "🔄 Запись на это время только что изменилась. Попробуйте ещё раз."
	case errors.Is(err, model.ErrInvalidInterval):
		return "❌ Некорректное время записи"
	case errors.Is(err, model.ErrInvalidValue), errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrAccessDenied):
		return "⛔ Доступ запрещён"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}

// IsBusinessError ошибка сценария, а не сбой
func IsBusinessError(err error) bool {
	return errors.Is(err, model.ErrUserNotFound) ||
		errors.Is(err, model.ErrSlotNotFound) ||
		errors.Is(err, model.ErrMaxCapacityExceeded) ||
		errors.Is(err, model.ErrSlotAlreadyReserved) ||
		errors.Is(err, model.ErrUserNotReserved) ||
		errors.Is(err, model.ErrSlotModified) ||
		errors.Is(err, model.ErrInvalidValue) ||
		errors.Is(err, model.ErrInvalidInterval)
}
