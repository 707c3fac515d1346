package common

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/callbacks/callbacktypes"
)

// WithRegistered пропускает только зарегистрированных пользователей
func WithRegistered(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	registered, err := h.UserService.IsRegistered(ctx, hc.TelegramID)
	if err != nil {
		HandleError(hc, err, "check_registered")
		return
	}
	if !registered {
		hc.AnswerAlert("⚠️ Сначала зарегистрируйтесь: /start")
		return
	}

	handler(hc)
}

// HandleError логирует ошибку и показывает пользователю понятный текст.
// Ошибки сценария пишутся на уровне Info, сбои на уровне Error
func HandleError(hc *HandlerContext, err error, operation string) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Int64("telegram_id", hc.TelegramID),
		zap.Error(err),
	}
	if IsBusinessError(err) {
		hc.Handler.Logger.Info("Operation rejected", fields...)
	} else {
		hc.Handler.Logger.Error("Operation failed", fields...)
	}
	hc.AnswerAlert(ErrorMessage(err))
}
