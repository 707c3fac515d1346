package callbacks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/callbacks/callbacktypes"
	"github.com/umdbot/migration_bot/internal/controller/state"
	"github.com/umdbot/migration_bot/internal/model"
	"github.com/umdbot/migration_bot/internal/schedule"
	"github.com/umdbot/migration_bot/internal/service"
)

const userID int64 = 100

type sentRequest struct {
	Method string
	Text   string
}

type fakeTelegram struct {
	mu       sync.Mutex
	requests []sentRequest
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	req := sentRequest{Method: method}
	if err := r.ParseMultipartForm(1 << 20); err == nil {
		req.Text = r.FormValue("text")
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if method == "answerCallbackQuery" {
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
		return
	}
	_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":100,"type":"private"}}}`))
}

func (f *fakeTelegram) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r.Method)
	}
	return out
}

// lastText текст последнего отправленного или отредактированного сообщения
func (f *fakeTelegram) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		switch f.requests[i].Method {
		case "sendMessage", "editMessageText":
			return f.requests[i].Text
		}
	}
	return ""
}

type stubUsers struct {
	users   map[int64]model.User
	updated []string
}

func (s *stubUsers) IsRegistered(_ context.Context, id int64) (bool, error) {
	_, ok := s.users[id]
	return ok, nil
}

func (s *stubUsers) GetUser(_ context.Context, id int64) (model.User, error) {
	return s.users[id], nil
}

func (s *stubUsers) Register(context.Context, service.UserDraft) (model.User, error) {
	return model.User{}, nil
}

func (s *stubUsers) UpdateNameLat(context.Context, int64, string) (model.User, error) {
	return model.User{}, nil
}

func (s *stubUsers) UpdateNameCyr(context.Context, int64, string) (model.User, error) {
	return model.User{}, nil
}

func (s *stubUsers) UpdateCitizenship(_ context.Context, id int64, value string) (model.User, error) {
	s.updated = append(s.updated, value)
	user := s.users[id]
	user.Citizenship = model.Citizenship(value)
	return user, nil
}

func (s *stubUsers) UpdateArrivalDate(context.Context, int64, time.Time) (model.User, error) {
	return model.User{}, nil
}

func (s *stubUsers) UpdateUsername(_ context.Context, id int64, username string) error {
	user := s.users[id]
	user.Username = username
	s.users[id] = user
	return nil
}

type stubScheduling struct {
	eligible   bool
	days       []time.Time
	free       []service.FreeSlot
	reserveErr error
	cancelErr  error

	reservedAt  time.Time
	reservedSvc model.Service
	canceledAt  time.Time
}

func (s *stubScheduling) CheckDeadline(context.Context, int64, model.Service) (bool, error) {
	return s.eligible, nil
}

func (s *stubScheduling) DaysWithFreeSlots(context.Context, int64, time.Time, model.Service) ([]time.Time, error) {
	return s.days, nil
}

func (s *stubScheduling) FreeSlots(context.Context, time.Time) ([]service.FreeSlot, error) {
	return s.free, nil
}

func (s *stubScheduling) ReserveSlot(_ context.Context, _ int64, at time.Time, svc model.Service) error {
	if s.reserveErr != nil {
		return s.reserveErr
	}
	s.reservedAt, s.reservedSvc = at, svc
	return nil
}

func (s *stubScheduling) CancelReservation(_ context.Context, _ int64, at time.Time) error {
	if s.cancelErr != nil {
		return s.cancelErr
	}
	s.canceledAt = at
	return nil
}

func (s *stubScheduling) Reservations(context.Context, time.Time) ([]service.ReservationRow, error) {
	return nil, nil
}

func (s *stubScheduling) Slots(context.Context, time.Time) ([]service.SlotView, error) {
	return nil, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixture struct {
	deps       *callbacktypes.Handler
	bot        *bot.Bot
	telegram   *fakeTelegram
	users      *stubUsers
	scheduling *stubScheduling
	states     *state.Manager
}

func setup(t *testing.T) *fixture {
	t.Helper()

	telegram := &fakeTelegram{}
	srv := httptest.NewServer(telegram)
	t.Cleanup(srv.Close)

	b, err := bot.New("123456:test-token", bot.WithSkipGetMe(), bot.WithServerURL(srv.URL))
	require.NoError(t, err)

	f := &fixture{
		bot:        b,
		telegram:   telegram,
		users:      &stubUsers{users: map[int64]model.User{userID: {ID: userID}}},
		scheduling: &stubScheduling{eligible: true},
		states:     state.NewManager(),
	}
	f.deps = &callbacktypes.Handler{
		UserService:       f.users,
		SchedulingService: f.scheduling,
		StateManager:      f.states,
		Deadlines:         schedule.NewStandardDeadlinePolicy(),
		Clock:             fixedClock{now: time.Date(2024, 9, 2, 9, 0, 0, 0, time.UTC)},
		Location:          time.UTC,
		Logger:            zap.NewNop(),
	}
	return f
}

func (f *fixture) press(data string) {
	callback := &models.CallbackQuery{
		ID:   "cb",
		From: models.User{ID: userID, Username: "fresh_nick"},
		Data: data,
		Message: models.MaybeInaccessibleMessage{
			Type:    models.MaybeInaccessibleMessageTypeMessage,
			Message: &models.Message{ID: 7, Chat: models.Chat{ID: userID}},
		},
	}
	Route(context.Background(), f.bot, callback, f.deps)
}

func TestReserveService_DeadlinePassed(t *testing.T) {
	f := setup(t)
	f.scheduling.eligible = false

	f.press(callbacktypes.ServiceData(model.ServiceVisa))

	assert.Contains(t, f.telegram.lastText(), "истёк")
}

func TestReserveService_ShowsDays(t *testing.T) {
	f := setup(t)
	f.scheduling.days = []time.Time{time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC)}

	f.press(callbacktypes.ServiceData(model.ServiceVisa))

	assert.Contains(t, f.telegram.lastText(), "Выберите день")
}

func TestReserveService_NoDays(t *testing.T) {
	f := setup(t)

	f.press(callbacktypes.ServiceData(model.ServiceInsurance))

	assert.Contains(t, f.telegram.lastText(), "Нет свободных дней")
}

func TestReserveConfirm_ReservesAndSyncsUsername(t *testing.T) {
	f := setup(t)
	start := time.Date(2024, 9, 3, 10, 20, 0, 0, time.UTC)

	f.press(callbacktypes.ConfirmData(model.ServiceVisa, start))

	assert.True(t, start.Equal(f.scheduling.reservedAt))
	assert.Equal(t, model.ServiceVisa, f.scheduling.reservedSvc)
	assert.Equal(t, "fresh_nick", f.users.users[userID].Username)
	assert.Contains(t, f.telegram.lastText(), "Вы записаны")
}

func TestReserveConfirm_SlotTakenRemovesKeyboard(t *testing.T) {
	f := setup(t)
	f.scheduling.reserveErr = &model.MaxCapacityExceededError{MaxSize: 3}

	f.press(callbacktypes.ConfirmData(model.ServiceVisa, time.Date(2024, 9, 3, 10, 20, 0, 0, time.UTC)))

	assert.Contains(t, f.telegram.methods(), "editMessageReplyMarkup")
	assert.True(t, f.scheduling.reservedAt.IsZero())
}

func TestCancelReservation(t *testing.T) {
	f := setup(t)
	start := time.Date(2024, 9, 3, 10, 20, 0, 0, time.UTC)

	f.press(callbacktypes.CancelData(start))

	assert.True(t, start.Equal(f.scheduling.canceledAt))
	assert.Contains(t, f.telegram.lastText(), "отменена")
}

func TestReserve_UnregisteredUserAlerted(t *testing.T) {
	f := setup(t)
	delete(f.users.users, userID)

	f.press(callbacktypes.ServiceData(model.ServiceVisa))

	assert.Equal(t, []string{"answerCallbackQuery"}, f.telegram.methods())
}

func TestCitizenship_RegistrationMovesToArrivalDate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.states.SetState(ctx, userID, state.StateRegistrationCitizenship))

	f.press(callbacktypes.CitizenshipData(0))

	st, err := f.states.GetState(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, state.StateRegistrationArrivalDate, st)

	value, ok, err := f.states.GetData(ctx, userID, state.KeyCitizenship)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.KnownCitizenships[0].String(), value)
}

func TestCitizenship_OtherAsksForText(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.states.SetState(ctx, userID, state.StateUpdateCitizenship))

	f.press(callbacktypes.ChooseCitizenship + callbacktypes.OtherCitizenship)

	st, err := f.states.GetState(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, state.StateUpdateOtherCitizenship, st)
}

func TestCitizenship_UpdateSavesImmediately(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.states.SetState(ctx, userID, state.StateUpdateCitizenship))

	f.press(callbacktypes.CitizenshipData(1))

	assert.Equal(t, []string{model.KnownCitizenships[1].String()}, f.users.updated)
	st, err := f.states.GetState(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, state.StateNone, st)
}

func TestCitizenship_IgnoredOutsideDialog(t *testing.T) {
	f := setup(t)

	f.press(callbacktypes.CitizenshipData(0))

	assert.Empty(t, f.users.updated)
	assert.Equal(t, []string{"answerCallbackQuery"}, f.telegram.methods())
}

func TestUpdateField_SetsStep(t *testing.T) {
	f := setup(t)

	f.press(callbacktypes.UpdateField + callbacktypes.FieldArrival)

	st, err := f.states.GetState(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, state.StateUpdateArrivalDate, st)
}
