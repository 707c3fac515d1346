package callbacks

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/callbacks/callbacktypes"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/common"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/common/formatting"
	"github.com/umdbot/migration_bot/internal/controller/callbacks/common/keyboard"
	"github.com/umdbot/migration_bot/internal/controller/state"
	"github.com/umdbot/migration_bot/internal/model"
)

// HandleAgreement согласие на обработку ПД, переход к вводу имени
func HandleAgreement(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if hc.State() != state.StateRegistrationAgreement {
		hc.Answer("")
		return
	}

	hc.SetState(state.StateRegistrationNameLat)
	hc.Answer("✅ Согласие получено")
	if err := hc.EditMessageText("✅ Согласие на обработку персональных данных получено"); err != nil {
		h.Logger.Warn("Failed to edit agreement message", zap.Error(err))
	}
	if err := hc.SendMessage(common.PromptNameLat, nil); err != nil {
		h.Logger.Error("Failed to send prompt", zap.Error(err))
	}
}

// HandleCitizenship выбор гражданства в регистрации или при изменении профиля
func HandleCitizenship(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	current := hc.State()

	if current != state.StateRegistrationCitizenship && current != state.StateUpdateCitizenship {
		hc.Answer("")
		return
	}

	arg := strings.TrimPrefix(callback.Data, callbacktypes.ChooseCitizenship)
	if arg == callbacktypes.OtherCitizenship {
		next := state.StateRegistrationOtherCitizenship
		if current == state.StateUpdateCitizenship {
			next = state.StateUpdateOtherCitizenship
		}
		hc.SetState(next)
		hc.Answer("")
		if err := hc.EditMessageText(common.PromptOther); err != nil {
			h.Logger.Warn("Failed to edit citizenship message", zap.Error(err))
		}
		return
	}

	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 || index >= len(model.KnownCitizenships) {
		common.HandleError(hc, common.ErrInvalidFormat, "choose_citizenship")
		return
	}
	citizenship := model.KnownCitizenships[index]

	if current == state.StateUpdateCitizenship {
		user, err := h.UserService.UpdateCitizenship(ctx, hc.TelegramID, citizenship.String())
		if err != nil {
			common.HandleError(hc, err, "update_citizenship")
			return
		}
		hc.ClearState()
		hc.Answer("✅ Сохранено")
		if err := hc.EditMessage("✅ Данные обновлены\n\n"+formatting.FormatProfile(user), nil); err != nil {
			h.Logger.Warn("Failed to edit profile message", zap.Error(err))
		}
		return
	}

	hc.SetData(state.KeyCitizenship, citizenship.String())
	hc.SetState(state.StateRegistrationArrivalDate)
	hc.Answer("")
	if err := hc.EditMessageText("🌍 Гражданство: " + citizenship.String() + "\n\n" + common.PromptArrival); err != nil {
		h.Logger.Warn("Failed to edit citizenship message", zap.Error(err))
	}
}

// HandleUpdateField выбор поля профиля для изменения
func HandleUpdateField(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithRegistered(ctx, b, callback, h, func(hc *common.HandlerContext) {
		var (
			next   state.UserState
			prompt string
			kb     *models.InlineKeyboardMarkup
		)

		switch strings.TrimPrefix(callback.Data, callbacktypes.UpdateField) {
		case callbacktypes.FieldNameLat:
			next, prompt = state.StateUpdateNameLat, common.PromptNameLat
		case callbacktypes.FieldNameCyr:
			next, prompt = state.StateUpdateNameCyr, common.PromptNameCyr
		case callbacktypes.FieldCitizenship:
			next, prompt, kb = state.StateUpdateCitizenship, common.PromptCitizenship, keyboard.Citizenships()
		case callbacktypes.FieldArrival:
			next, prompt = state.StateUpdateArrivalDate, common.PromptArrival
		default:
			common.HandleError(hc, common.ErrInvalidFormat, "update_field")
			return
		}

		hc.SetState(next)
		hc.Answer("")
		if err := hc.EditMessage(prompt+"\n\n"+common.PromptCancel, kb); err != nil {
			h.Logger.Warn("Failed to edit update message", zap.Error(err))
		}
	})
}
