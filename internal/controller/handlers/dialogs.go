package handlers

import (
	"context"
	"errors"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/callbacks/common"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/common/formatting"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/common/keyboard"
	"github.com/umdbot/migration_bot/internal/controller/state"
	"github.com/umdbot/migration_bot/internal/model"
	"github.com/umdbot/migration_bot/internal/service"
)

// ===== Регистрация =====

// handleRegistrationNameLat обрабатывает ввод ФИО латиницей
func (h *Handlers) handleRegistrationNameLat(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	name, err := model.NewLatinName(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, chatID, InvalidNameLat)
		return
	}

	h.setData(ctx, telegramID, state.KeyNameLat, name.String())
	h.setState(ctx, telegramID, state.StateRegistrationNameCyr)

	h.sendMessage(ctx, b, chatID, "✅ "+html.EscapeString(name.String())+"\n\n"+common.PromptNameCyr)
}

// handleRegistrationNameCyr обрабатывает ввод ФИО кириллицей
func (h *Handlers) handleRegistrationNameCyr(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	name, err := model.NewCyrillicName(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, chatID, InvalidNameCyr)
		return
	}

	h.setData(ctx, telegramID, state.KeyNameCyr, name.String())
	h.setState(ctx, telegramID, state.StateRegistrationCitizenship)

	h.sendHTML(ctx, b, chatID, "✅ "+html.EscapeString(name.String())+"\n\n"+common.PromptCitizenship, keyboard.Citizenships())
}

// handleRegistrationOtherCitizenship обрабатывает ввод гражданства не из списка
func (h *Handlers) handleRegistrationOtherCitizenship(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	citizenship, err := model.ParseCitizenship(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, chatID, InvalidOther)
		return
	}

	h.setData(ctx, telegramID, state.KeyCitizenship, citizenship.String())
	h.setState(ctx, telegramID, state.StateRegistrationArrivalDate)

	h.sendMessage(ctx, b, chatID, "🌍 Гражданство: "+html.EscapeString(citizenship.String())+"\n\n"+common.PromptArrival)
}

// handleRegistrationArrivalDate последний шаг анкеты, сохраняет пользователя
func (h *Handlers) handleRegistrationArrivalDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	arrival, err := ParseDate(update.Message.Text, h.location)
	if err != nil {
		h.sendError(ctx, b, chatID, InvalidDate)
		return
	}

	data, err := h.stateManager.GetAllData(ctx, telegramID)
	if err != nil {
		h.reportError(ctx, b, chatID, err, "get_registration_data")
		return
	}

	draft := service.UserDraft{
		ID:          telegramID,
		Username:    update.Message.From.Username,
		FullNameLat: data[state.KeyNameLat],
		FullNameCyr: data[state.KeyNameCyr],
		Citizenship: data[state.KeyCitizenship],
		ArrivalDate: arrival,
	}

	user, err := h.userService.Register(ctx, draft)
	if err != nil {
		if errors.Is(err, model.ErrInvalidValue) && draft.FullNameLat != "" && draft.FullNameCyr != "" && draft.Citizenship != "" {
			// Анкета заполнена, не подошла только дата
			h.sendError(ctx, b, chatID, InvalidArrival)
			return
		}
		h.clearState(ctx, telegramID)
		h.reportError(ctx, b, chatID, err, "register")
		return
	}

	h.clearState(ctx, telegramID)

	h.logger.Info("Registration completed", zap.Int64("telegram_id", telegramID))

	h.sendMessage(ctx, b, chatID, "✅ Регистрация завершена!\n\n"+
		formatting.FormatProfile(user)+
		"\n\nЗаписаться на приём: /reserve")
}

// ===== Изменение профиля =====

// handleUpdateNameLat сохраняет новое ФИО латиницей
func (h *Handlers) handleUpdateNameLat(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.applyUpdate(ctx, b, update, InvalidNameLat, func(id int64, text string) (model.User, error) {
		return h.userService.UpdateNameLat(ctx, id, text)
	})
}

// handleUpdateNameCyr сохраняет новое ФИО кириллицей
func (h *Handlers) handleUpdateNameCyr(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.applyUpdate(ctx, b, update, InvalidNameCyr, func(id int64, text string) (model.User, error) {
		return h.userService.UpdateNameCyr(ctx, id, text)
	})
}

// handleUpdateOtherCitizenship сохраняет гражданство не из списка
func (h *Handlers) handleUpdateOtherCitizenship(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.applyUpdate(ctx, b, update, InvalidOther, func(id int64, text string) (model.User, error) {
		return h.userService.UpdateCitizenship(ctx, id, text)
	})
}

// handleUpdateArrivalDate сохраняет новую дату прибытия
func (h *Handlers) handleUpdateArrivalDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	arrival, err := ParseDate(update.Message.Text, h.location)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, InvalidDate)
		return
	}

	h.applyUpdate(ctx, b, update, InvalidArrival, func(id int64, _ string) (model.User, error) {
		return h.userService.UpdateArrivalDate(ctx, id, arrival)
	})
}

// applyUpdate общий шаг изменения поля: при неверном вводе шаг повторяется,
// после сохранения диалог завершается
func (h *Handlers) applyUpdate(
	ctx context.Context,
	b *bot.Bot,
	update *models.Update,
	invalidText string,
	save func(id int64, text string) (model.User, error),
) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	user, err := save(telegramID, strings.TrimSpace(update.Message.Text))
	if err != nil {
		if errors.Is(err, model.ErrInvalidValue) {
			h.sendError(ctx, b, chatID, invalidText)
			return
		}
		h.clearState(ctx, telegramID)
		h.reportError(ctx, b, chatID, err, "update_profile")
		return
	}

	h.clearState(ctx, telegramID)
	h.sendMessage(ctx, b, chatID, "✅ Данные обновлены\n\n"+formatting.FormatProfile(user))
}
