package common

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/callbacks/callbacktypes"
	"github.com/umdbot/migration_bot/internal/controller/state"
)

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	TelegramID int64
	ChatID     int64
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	chatID := callback.From.ID
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// Answer отвечает на callback query
func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// AnswerAlert отвечает на callback query с alert
func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// EditMessage редактирует сообщение
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	params := &bot.EditMessageTextParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := hc.Bot.EditMessageText(hc.Ctx, params)

	// "message is not modified" не настоящая ошибка
	if IsMessageNotModifiedError(err) {
		return nil
	}

	return err
}

// EditMessageText редактирует только текст сообщения, кнопки убираются
func (hc *HandlerContext) EditMessageText(text string) error {
	return hc.EditMessage(text, nil)
}

// RemoveKeyboard убирает inline кнопки у сообщения
func (hc *HandlerContext) RemoveKeyboard() error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	_, err := hc.Bot.EditMessageReplyMarkup(hc.Ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
	})
	if IsMessageNotModifiedError(err) {
		return nil
	}
	return err
}

// SendMessage отправляет новое сообщение
func (hc *HandlerContext) SendMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    hc.ChatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := hc.Bot.SendMessage(hc.Ctx, params)
	return err
}

// State текущий шаг диалога, при сбое хранилища считается пустым
func (hc *HandlerContext) State() state.UserState {
	st, err := hc.Handler.StateManager.GetState(hc.Ctx, hc.TelegramID)
	if err != nil {
		hc.Handler.Logger.Error("Failed to get state",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
		return state.StateNone
	}
	return st
}

// SetState устанавливает состояние пользователя
func (hc *HandlerContext) SetState(st state.UserState) {
	if err := hc.Handler.StateManager.SetState(hc.Ctx, hc.TelegramID, st); err != nil {
		hc.Handler.Logger.Error("Failed to set state",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("state", string(st)),
			zap.Error(err))
	}
}

// SetData устанавливает данные в state
func (hc *HandlerContext) SetData(key, value string) {
	if err := hc.Handler.StateManager.SetData(hc.Ctx, hc.TelegramID, key, value); err != nil {
		hc.Handler.Logger.Error("Failed to set state data",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("key", key),
			zap.Error(err))
	}
}

// ClearState очищает состояние пользователя
func (hc *HandlerContext) ClearState() {
	if err := hc.Handler.StateManager.ClearState(hc.Ctx, hc.TelegramID); err != nil {
		hc.Handler.Logger.Error("Failed to clear state",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
	}
}
