package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/callbacks/callbacktypes"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/common"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	switch {
	case data == callbacktypes.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Регистрация и профиль =====
	case data == callbacktypes.AgreePersonalData:
		HandleAgreement(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.ChooseCitizenship):
		HandleCitizenship(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.UpdateField):
		HandleUpdateField(ctx, b, callback, h)

	// ===== Запись =====
	case data == callbacktypes.ReserveStart:
		HandleReserveStart(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.ReserveService):
		HandleReserveService(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.ReserveDay):
		HandleReserveDay(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.ReserveSlot):
		HandleReserveSlot(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.ReserveConfirm):
		HandleReserveConfirm(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.CancelReservation):
		HandleCancelReservation(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}
