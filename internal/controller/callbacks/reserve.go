package callbacks

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/callbacks/callbacktypes"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/common"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/common/formatting"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/common/keyboard"
	"github.com/umdbot/migration_bot/internal/model"
)

// HandleReserveStart возврат к выбору услуги
func HandleReserveStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithRegistered(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.Answer("")
		if err := hc.EditMessage(formatting.FormatReserveIntro(h.Deadlines), keyboard.Services()); err != nil {
			h.Logger.Warn("Failed to edit services message", zap.Error(err))
		}
	})
}

// HandleReserveService проверка срока и выбор дня
func HandleReserveService(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithRegistered(ctx, b, callback, h, func(hc *common.HandlerContext) {
		svc, err := callbacktypes.ParseService(callback.Data)
		if err != nil {
			common.HandleError(hc, err, "reserve_service")
			return
		}

		eligible, err := h.SchedulingService.CheckDeadline(ctx, hc.TelegramID, svc)
		if err != nil {
			common.HandleError(hc, err, "check_deadline")
			return
		}
		if !eligible {
			hc.Answer("")
			text := fmt.Sprintf("⏰ Срок записи на услугу «%s» истёк.\n\nОбратитесь в миграционный отдел лично.", svc.Label())
			if err := hc.EditMessage(text, keyboard.NewBuilder().AddBackButton(callbacktypes.ReserveStart).Build()); err != nil {
				h.Logger.Warn("Failed to edit deadline message", zap.Error(err))
			}
			return
		}

		days, err := h.SchedulingService.DaysWithFreeSlots(ctx, hc.TelegramID, h.Today(), svc)
		if err != nil {
			common.HandleError(hc, err, "days_with_free_slots")
			return
		}

		hc.Answer("")
		if len(days) == 0 {
			text := fmt.Sprintf("😕 Нет свободных дней для записи на услугу «%s».", svc.Label())
			if err := hc.EditMessage(text, keyboard.NewBuilder().AddBackButton(callbacktypes.ReserveStart).Build()); err != nil {
				h.Logger.Warn("Failed to edit days message", zap.Error(err))
			}
			return
		}

		text := fmt.Sprintf("Услуга: «%s»\n\n📅 Выберите день:", svc.Label())
		if err := hc.EditMessage(text, keyboard.Days(svc, days)); err != nil {
			h.Logger.Warn("Failed to edit days message", zap.Error(err))
		}
	})
}

// HandleReserveDay свободные окна выбранного дня
func HandleReserveDay(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithRegistered(ctx, b, callback, h, func(hc *common.HandlerContext) {
		svc, day, err := callbacktypes.ParseServiceDay(callback.Data, h.Location)
		if err != nil {
			common.HandleError(hc, err, "reserve_day")
			return
		}

		slots, err := h.SchedulingService.FreeSlots(ctx, day)
		if err != nil {
			common.HandleError(hc, err, "free_slots")
			return
		}

		hc.Answer("")
		if len(slots) == 0 {
			text := fmt.Sprintf("😕 На %s свободных окон не осталось.", formatting.FormatDateWithWeekday(day))
			if err := hc.EditMessage(text, keyboard.NewBuilder().AddBackButton(callbacktypes.ServiceData(svc)).Build()); err != nil {
				h.Logger.Warn("Failed to edit slots message", zap.Error(err))
			}
			return
		}

		text := fmt.Sprintf("Услуга: «%s»\nДень: %s\n\n🕐 Выберите время:", svc.Label(), formatting.FormatDateWithWeekday(day))
		if err := hc.EditMessage(text, keyboard.Slots(svc, slots)); err != nil {
			h.Logger.Warn("Failed to edit slots message", zap.Error(err))
		}
	})
}

// HandleReserveSlot показывает запись на подтверждение
func HandleReserveSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithRegistered(ctx, b, callback, h, func(hc *common.HandlerContext) {
		svc, start, err := callbacktypes.ParseServiceTime(callback.Data, callbacktypes.ReserveSlot, h.Location)
		if err != nil {
			common.HandleError(hc, err, "reserve_slot")
			return
		}

		hc.Answer("")
		text := "Подтвердите запись:\n\n" + formatting.FormatReservation(svc, start)
		if err := hc.EditMessage(text, keyboard.ConfirmReservation(svc, start)); err != nil {
			h.Logger.Warn("Failed to edit confirm message", zap.Error(err))
		}
	})
}

// HandleReserveConfirm записывает пользователя в слот
func HandleReserveConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithRegistered(ctx, b, callback, h, func(hc *common.HandlerContext) {
		svc, start, err := callbacktypes.ParseServiceTime(callback.Data, callbacktypes.ReserveConfirm, h.Location)
		if err != nil {
			common.HandleError(hc, err, "reserve_confirm")
			return
		}

		// Ник мог поменяться после регистрации, в выгрузке нужен актуальный
		if err := h.UserService.UpdateUsername(ctx, hc.TelegramID, callback.From.Username); err != nil {
			h.Logger.Warn("Failed to update username",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.Error(err))
		}

		if err := h.SchedulingService.ReserveSlot(ctx, hc.TelegramID, start, svc); err != nil {
			if errors.Is(err, model.ErrSlotNotFound) || errors.Is(err, model.ErrMaxCapacityExceeded) {
				// Окно заняли, пока пользователь выбирал: убираем устаревшие кнопки
				if kbErr := hc.RemoveKeyboard(); kbErr != nil {
					h.Logger.Warn("Failed to remove keyboard", zap.Error(kbErr))
				}
			}
			common.HandleError(hc, err, "reserve_slot")
			return
		}

		hc.Answer("✅ Вы записаны")
		text := "✅ <b>Вы записаны!</b>\n\n" + formatting.FormatReservation(svc, start) +
			"\n\nВозьмите с собой паспорт и миграционную карту."
		if err := hc.EditMessage(text, keyboard.CancelReservation(start)); err != nil {
			h.Logger.Warn("Failed to edit reservation message", zap.Error(err))
		}
	})
}

// HandleCancelReservation отменяет запись из сообщения-подтверждения
func HandleCancelReservation(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithRegistered(ctx, b, callback, h, func(hc *common.HandlerContext) {
		start, err := callbacktypes.ParseCancel(callback.Data, h.Location)
		if err != nil {
			common.HandleError(hc, err, "cancel_reservation")
			return
		}

		if err := h.SchedulingService.CancelReservation(ctx, hc.TelegramID, start); err != nil {
			if errors.Is(err, model.ErrUserNotReserved) {
				if kbErr := hc.RemoveKeyboard(); kbErr != nil {
					h.Logger.Warn("Failed to remove keyboard", zap.Error(kbErr))
				}
			}
			common.HandleError(hc, err, "cancel_reservation")
			return
		}

		hc.Answer("Запись отменена")
		if err := hc.RemoveKeyboard(); err != nil {
			h.Logger.Warn("Failed to remove keyboard", zap.Error(err))
		}
		text := fmt.Sprintf("🚫 Запись на %s, %s отменена.\n\nЗаписаться снова: /reserve",
			formatting.FormatDateWithWeekday(start), formatting.FormatTime(start))
		if err := hc.SendMessage(text, nil); err != nil {
			h.Logger.Error("Failed to send cancel message", zap.Error(err))
		}
	})
}
