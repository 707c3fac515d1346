package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/umdbot/migration_bot/internal/model"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[int64]model.User
	saved int
}

func newMockUserRepo(users ...model.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[int64]model.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) User(_ context.Context, id int64) (model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return model.User{}, &model.UserNotFoundError{UserID: id}
	}
	return u, nil
}

func (m *mockUserRepo) SaveUser(_ context.Context, user model.User) error {
	m.users[user.ID] = user
	m.saved++
	return nil
}

// ── Mock SlotStore ──

type mockSlotStore struct {
	mu           sync.Mutex
	reservations map[int64][]model.Reservation
	saveErr      error
	saves        int
	nextID       int
}

func newMockSlotStore() *mockSlotStore {
	return &mockSlotStore{reservations: make(map[int64][]model.Reservation)}
}

func (m *mockSlotStore) put(start time.Time, rs ...model.Reservation) {
	m.reservations[start.Unix()] = append(m.reservations[start.Unix()], rs...)
}

func (m *mockSlotStore) merge(template *model.Slot) (*model.Slot, error) {
	slot := model.NewSlot(template.Interval(), template.MaxSize())
	for _, r := range m.reservations[template.Start().Unix()] {
		slot.Restore(r)
	}
	slot.MarkLoaded()
	return slot, nil
}

func (m *mockSlotStore) AvailableSlots(_ context.Context, templates []*model.Slot) ([]*model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*model.Slot, 0, len(templates))
	for _, t := range templates {
		slot, err := m.merge(t)
		if err != nil {
			return nil, err
		}
		if slot.IsAvailable() {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (m *mockSlotStore) HasAvailableSlots(ctx context.Context, templates []*model.Slot) (bool, error) {
	available, err := m.AvailableSlots(ctx, templates)
	if err != nil {
		return false, err
	}
	return len(available) > 0, nil
}

func (m *mockSlotStore) ReservedSlots(_ context.Context, templates []*model.Slot) ([]*model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*model.Slot, 0)
	for _, t := range templates {
		slot, err := m.merge(t)
		if err != nil {
			return nil, err
		}
		if !slot.IsEmpty() {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (m *mockSlotStore) ReservedSlot(_ context.Context, template *model.Slot) (*model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.merge(template)
}

func (m *mockSlotStore) SaveSlot(_ context.Context, slot *model.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}

	stored := m.reservations[slot.Start().Unix()]
	ids := make([]string, len(stored))
	for i, r := range stored {
		ids[i] = r.ID
	}
	if !slices.Equal(ids, slot.LoadedIDs()) {
		return model.ErrSlotModified
	}

	m.saves++
	if slot.IsEmpty() {
		delete(m.reservations, slot.Start().Unix())
		return nil
	}
	rs := slot.Reservations()
	for i := range rs {
		if rs[i].ID == "" {
			m.nextID++
			rs[i].ID = fmt.Sprintf("r%d", m.nextID)
		}
	}
	m.reservations[slot.Start().Unix()] = rs
	return nil
}

// ── Fixed clock ──

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// ── Recorder spy ──

type spyRecorder struct {
	operations map[string]int
	failures   map[string]int
	created    int
	canceled   int
}

func newSpyRecorder() *spyRecorder {
	return &spyRecorder{operations: make(map[string]int), failures: make(map[string]int)}
}

func (r *spyRecorder) ObserveOperation(operation string, err error, _ time.Duration) {
	r.operations[operation]++
	if err != nil {
		r.failures[operation]++
	}
}

func (r *spyRecorder) ReservationCreated(model.Service) { r.created++ }
func (r *spyRecorder) ReservationCanceled()             { r.canceled++ }
