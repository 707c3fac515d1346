package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/callbacks/common"
	"github.com/umdbot/migration_bot/internal/model"
)

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendHTML(ctx, b, chatID, text, nil)
}

// sendHTML отправляет сообщение в HTML разметке, с кнопками если они переданы
func (h *Handlers) sendHTML(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// reportError логирует ошибку операции и отправляет пользователю понятный текст
func (h *Handlers) reportError(ctx context.Context, b *bot.Bot, chatID int64, err error, operation string) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.Int64("chat_id", chatID),
		zap.Error(err),
	}
	if common.IsBusinessError(err) {
		h.logger.Info("Operation rejected", fields...)
	} else {
		h.logger.Error("Operation failed", fields...)
	}
	h.sendError(ctx, b, chatID, common.ErrorMessage(err))
}

// ParseDate разбирает дату ДД.ММ.ГГГГ, допускается и ГГГГ.ММ.ДД
func ParseDate(text string, loc *time.Location) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", model.ErrInvalidValue, text)
}

