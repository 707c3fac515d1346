package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/state"
	"github.com/umdbot/migration_bot/internal/model"
)

// requireUser проверяет что пользователь зарегистрирован
// Возвращает user и true если OK, пустого пользователя и false если нет
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, update *models.Update) (model.User, bool) {
	if update.Message == nil || update.Message.From == nil {
		return model.User{}, false
	}

	telegramID := update.Message.From.ID
	user, err := h.userService.GetUser(ctx, telegramID)
	if err != nil {
		h.reportError(ctx, b, update.Message.Chat.ID, err, "get_user")
		return model.User{}, false
	}

	return user, true
}

// requireAdmin проверяет что пользователь администратор
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}

	telegramID := update.Message.From.ID
	isAdmin, err := h.adminService.IsAdmin(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to check admin", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return false
	}

	if !isAdmin {
		h.logger.Warn("Admin command denied", zap.Int64("telegram_id", telegramID))
		h.sendError(ctx, b, update.Message.Chat.ID, "⛔ Эта команда доступна только администраторам.")
		return false
	}

	return true
}

// currentState шаг диалога, при сбое хранилища считается пустым
func (h *Handlers) currentState(ctx context.Context, telegramID int64) state.UserState {
	st, err := h.stateManager.GetState(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to get state", zap.Int64("telegram_id", telegramID), zap.Error(err))
		return state.StateNone
	}
	return st
}

// setState переводит диалог на шаг st
func (h *Handlers) setState(ctx context.Context, telegramID int64, st state.UserState) {
	if err := h.stateManager.SetState(ctx, telegramID, st); err != nil {
		h.logger.Error("Failed to set state",
			zap.Int64("telegram_id", telegramID),
			zap.String("state", string(st)),
			zap.Error(err))
	}
}

func (h *Handlers) setData(ctx context.Context, telegramID int64, key, value string) {
	if err := h.stateManager.SetData(ctx, telegramID, key, value); err != nil {
		h.logger.Error("Failed to set state data",
			zap.Int64("telegram_id", telegramID),
			zap.String("key", key),
			zap.Error(err))
	}
}

func (h *Handlers) clearState(ctx context.Context, telegramID int64) {
	if err := h.stateManager.ClearState(ctx, telegramID); err != nil {
		h.logger.Error("Failed to clear state", zap.Int64("telegram_id", telegramID), zap.Error(err))
	}
}
