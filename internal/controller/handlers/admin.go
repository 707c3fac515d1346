package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/callbacks/common"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/common/formatting"
	"github.com/umdbot/migration_bot/internal/controller/state"
	"github.com/umdbot/migration_bot/internal/export"
)

// HandleTable обрабатывает команду /table - выгрузка записей в CSV
func (h *Handlers) HandleTable(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.startTableDialog(ctx, b, update, FormatCSV)
}

// HandleTableXLSX обрабатывает команду /table_xlsx - выгрузка записей в Excel
func (h *Handlers) HandleTableXLSX(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.startTableDialog(ctx, b, update, FormatXLSX)
}

// HandleSlots обрабатывает команду /slots - заполненность окон за день
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	telegramID := update.Message.From.ID
	h.clearState(ctx, telegramID)
	h.setState(ctx, telegramID, state.StateAdminSlotsDate)

	h.sendMessage(ctx, b, update.Message.Chat.ID, common.PromptDate+"\n\n"+common.PromptCancel)
}

func (h *Handlers) startTableDialog(ctx context.Context, b *bot.Bot, update *models.Update, format string) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	telegramID := update.Message.From.ID
	h.clearState(ctx, telegramID)
	h.setState(ctx, telegramID, state.StateAdminTableDate)
	h.setData(ctx, telegramID, state.KeyFormat, format)

	h.sendMessage(ctx, b, update.Message.Chat.ID, common.PromptDate+"\n\n"+common.PromptCancel)
}

// handleAdminTableDate формирует выгрузку за введённую дату и отправляет файлом
func (h *Handlers) handleAdminTableDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	date, err := ParseDate(update.Message.Text, h.location)
	if err != nil {
		h.sendError(ctx, b, chatID, InvalidDate)
		return
	}

	format, ok, err := h.stateManager.GetData(ctx, telegramID, state.KeyFormat)
	if err != nil || !ok {
		format = FormatCSV
	}
	h.clearState(ctx, telegramID)

	rows, err := h.schedulingService.Reservations(ctx, date)
	if err != nil {
		h.reportError(ctx, b, chatID, err, "reservations")
		return
	}

	if len(rows) == 0 {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("📭 На %s записей нет.", formatting.FormatDateWithWeekday(date)))
		return
	}

	var buf bytes.Buffer
	if format == FormatXLSX {
		err = export.WriteXLSX(&buf, rows)
	} else {
		err = export.WriteCSV(&buf, rows)
	}
	if err != nil {
		h.logger.Error("Failed to build report",
			zap.String("format", format),
			zap.Time("date", date),
			zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось сформировать файл. Попробуйте позже.")
		return
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: export.FileName(date, format),
			Data:     &buf,
		},
		Caption: fmt.Sprintf("📋 %s: %s", formatting.FormatDateWithWeekday(date), formatting.CountReservations(len(rows))),
	})
	if err != nil {
		h.logger.Error("Failed to send report",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return
	}

	h.logger.Info("Report sent",
		zap.Int64("telegram_id", telegramID),
		zap.String("format", format),
		zap.Int("rows", len(rows)))
}

// handleAdminSlotsDate показывает заполненность окон за введённую дату
func (h *Handlers) handleAdminSlotsDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	date, err := ParseDate(update.Message.Text, h.location)
	if err != nil {
		h.sendError(ctx, b, chatID, InvalidDate)
		return
	}
	h.clearState(ctx, telegramID)

	views, err := h.schedulingService.Slots(ctx, date)
	if err != nil {
		h.reportError(ctx, b, chatID, err, "slots")
		return
	}

	h.sendMessage(ctx, b, chatID, formatting.FormatSlotsOverview(date, views))
}
