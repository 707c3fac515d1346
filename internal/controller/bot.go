package controller

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/callbacks"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/callbacktypes"
	"github.com/umdbot/migration_bot/internal/controller/handlers"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

// NewBotController создаёт бота и обработчики. Текстовые сообщения без команды
// уходят в обработчик диалогов как обработчик по умолчанию
func NewBotController(token string, deps *callbacktypes.Handler) (*BotController, error) {
	cmdHandlers := handlers.NewHandlers(deps)
	callbackHandler := callbacks.NewHandler(deps)

	c := &BotController{
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          deps.Logger,
	}

	b, err := bot.New(token,
		bot.WithDefaultHandler(cmdHandlers.HandleTextMessage),
		bot.WithMiddlewares(c.traceMiddleware),
		bot.WithErrorsHandler(func(err error) {
			c.logger.Error("Telegram API error", zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	c.bot = b

	return c, nil
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/profile", bot.MatchTypeExact, c.handlers.HandleProfile)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/update", bot.MatchTypeExact, c.handlers.HandleUpdate)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reserve", bot.MatchTypeExact, c.handlers.HandleReserve)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды администратора, права проверяются внутри
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/table", bot.MatchTypeExact, c.handlers.HandleTable)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/table_xlsx", bot.MatchTypeExact, c.handlers.HandleTableXLSX)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/slots", bot.MatchTypeExact, c.handlers.HandleSlots)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Регистрация"},
		{Command: "reserve", Description: "📝 Записаться на приём"},
		{Command: "profile", Description: "📋 Мои данные"},
		{Command: "update", Description: "✏️ Изменить данные"},
		{Command: "cancel", Description: "❌ Отменить текущее действие"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// traceMiddleware помечает каждое обновление trace id для поиска в логах
func (c *BotController) traceMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		fields := []zap.Field{
			zap.String("trace_id", uuid.NewString()),
			zap.Int64("update_id", update.ID),
		}
		switch {
		case update.Message != nil && update.Message.From != nil:
			fields = append(fields, zap.Int64("telegram_id", update.Message.From.ID), zap.String("kind", "message"))
		case update.CallbackQuery != nil:
			fields = append(fields, zap.Int64("telegram_id", update.CallbackQuery.From.ID), zap.String("kind", "callback"))
		}

		c.logger.Debug("Update received", fields...)
		next(ctx, b, update)
	}
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
