package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/callbacks/common"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/common/formatting"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/common/keyboard"
	"github.com/umdbot/migration_bot/internal/controller/state"
)

const helpText = "📚 Справка по командам:\n\n" +
	"/start - Регистрация\n" +
	"/profile - Мои данные\n" +
	"/update - Изменить данные\n" +
	"/reserve - Записаться на приём\n" +
	"/cancel - Отменить текущее действие\n" +
	"/help - Показать эту справку\n\n" +
	"Отменить запись можно кнопкой под сообщением о записи."

const adminHelpText = "\n\nДля администраторов:\n" +
	"/table - Записи на день (CSV)\n" +
	"/table_xlsx - Записи на день (Excel)\n" +
	"/slots - Заполненность окон на день"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	registered, err := h.userService.IsRegistered(ctx, telegramID)
	if err != nil {
		h.reportError(ctx, b, chatID, err, "check_registered")
		return
	}

	if registered {
		h.clearState(ctx, telegramID)
		h.sendMessage(ctx, b, chatID, fmt.Sprintf(
			"👋 С возвращением, %s!\n\n"+
				"Вы уже зарегистрированы.\n"+
				"/reserve - Записаться на приём\n"+
				"/profile - Мои данные\n"+
				"/help - Справка",
			html.EscapeString(update.Message.From.FirstName),
		))
		return
	}

	h.logger.Info("Starting registration", zap.Int64("telegram_id", telegramID))

	// Начинаем анкету с чистого листа
	h.clearState(ctx, telegramID)
	h.setState(ctx, telegramID, state.StateRegistrationAgreement)
	h.sendHTML(ctx, b, chatID, common.PromptAgreement, keyboard.Agreement())
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	text := helpText
	if isAdmin, err := h.adminService.IsAdmin(ctx, update.Message.From.ID); err == nil && isAdmin {
		text += adminHelpText
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, text)
}

// HandleProfile обрабатывает команду /profile
func (h *Handlers) HandleProfile(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		formatting.FormatProfile(user)+"\n\nИзменить данные: /update")
}

// HandleUpdate обрабатывает команду /update - выбор поля для изменения
func (h *Handlers) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	h.setState(ctx, user.ID, state.StateUpdateField)
	h.sendHTML(ctx, b, update.Message.Chat.ID,
		formatting.FormatProfile(user)+"\n\nЧто вы хотите изменить?",
		keyboard.ProfileFields())
}

// HandleReserve обрабатывает команду /reserve - выбор услуги
func (h *Handlers) HandleReserve(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	// Команда прерывает незаконченный диалог
	h.clearState(ctx, user.ID)

	h.sendHTML(ctx, b, update.Message.Chat.ID,
		formatting.FormatReserveIntro(h.deadlines),
		keyboard.Services())
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.currentState(ctx, telegramID)

	if currentState == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.clearState(ctx, telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	chatID := update.Message.Chat.ID

	if strings.HasPrefix(update.Message.Text, "/") {
		h.sendMessage(ctx, b, chatID, "❓ Неизвестная команда. Список команд: /help")
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.currentState(ctx, telegramID)

	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	switch currentState {
	case state.StateNone:
		h.sendMessage(ctx, b, chatID, "Используйте /help для просмотра доступных команд.")

	// Регистрация
	case state.StateRegistrationAgreement:
		h.sendMessage(ctx, b, chatID, "Нажмите «Подтверждаю» под сообщением выше или /cancel для отмены.")
	case state.StateRegistrationNameLat:
		h.handleRegistrationNameLat(ctx, b, update)
	case state.StateRegistrationNameCyr:
		h.handleRegistrationNameCyr(ctx, b, update)
	case state.StateRegistrationCitizenship, state.StateUpdateCitizenship:
		h.sendHTML(ctx, b, chatID, common.PromptCitizenship, keyboard.Citizenships())
	case state.StateRegistrationOtherCitizenship:
		h.handleRegistrationOtherCitizenship(ctx, b, update)
	case state.StateRegistrationArrivalDate:
		h.handleRegistrationArrivalDate(ctx, b, update)

	// Изменение профиля
	case state.StateUpdateField:
		h.sendHTML(ctx, b, chatID, "Выберите поле кнопкой ниже:", keyboard.ProfileFields())
	case state.StateUpdateNameLat:
		h.handleUpdateNameLat(ctx, b, update)
	case state.StateUpdateNameCyr:
		h.handleUpdateNameCyr(ctx, b, update)
	case state.StateUpdateOtherCitizenship:
		h.handleUpdateOtherCitizenship(ctx, b, update)
	case state.StateUpdateArrivalDate:
		h.handleUpdateArrivalDate(ctx, b, update)

	// Администратор
	case state.StateAdminTableDate:
		h.handleAdminTableDate(ctx, b, update)
	case state.StateAdminSlotsDate:
		h.handleAdminSlotsDate(ctx, b, update)

	default:
		h.logger.Warn("Unknown state, resetting",
			zap.Int64("telegram_id", telegramID),
			zap.String("state", string(currentState)))
		h.clearState(ctx, telegramID)
	}
}
