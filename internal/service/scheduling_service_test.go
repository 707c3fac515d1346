package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/model"
	"github.com/umdbot/migration_bot/internal/schedule"
)

// ── Тестовые помощники ──

// 2 сентября 2024 года - понедельник
var (
	monday  = time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	tuesday = model.AddDays(monday, 1)
	nextMon = model.AddDays(monday, 7)
)

func at(date time.Time, hour, minute int) time.Time {
	return model.MustTimeOfDay(hour, minute).On(date)
}

func tajik(id int64) model.User {
	return model.User{
		ID:          id,
		Username:    "user",
		FullNameLat: "Rahimov Rustam",
		FullNameCyr: "Рахимов Рустам",
		Citizenship: model.CitizenshipTajikistan,
		ArrivalDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

type fixture struct {
	svc     *SchedulingService
	users   *mockUserRepo
	store   *mockSlotStore
	metrics *spyRecorder
}

func setupSchedulingService(t *testing.T, capacity int, now time.Time, users ...model.User) *fixture {
	t.Helper()
	factory, err := schedule.NewFixedSlotFactory(capacity, 20*time.Minute)
	require.NoError(t, err)

	f := &fixture{
		users:   newMockUserRepo(users...),
		store:   newMockSlotStore(),
		metrics: newSpyRecorder(),
	}
	f.svc = NewSchedulingService(SchedulingDeps{
		Factory:   factory,
		Hours:     schedule.DefaultSplitHoursPolicy(),
		Deadlines: schedule.NewStandardDeadlinePolicy(),
		Users:     f.users,
		Slots:     f.store,
		Clock:     fixedClock{now: now},
		Metrics:   f.metrics,
	}, zap.NewNop())
	return f
}

func reservation(id int64) model.Reservation {
	return model.Reservation{User: tajik(id), Service: model.ServiceVisa}
}

// ── CheckDeadline ──

func TestCheckDeadline_ServiceWithoutDeadline(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0))

	ok, err := f.svc.CheckDeadline(context.Background(), 404, model.ServiceRenewalOfVisa)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckDeadline_CutoffDayIsStillEligible(t *testing.T) {
	// Таджикистан: 15 дней от 1 сентября, последний день - 16 сентября
	cutoff := time.Date(2024, 9, 16, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"day of arrival", at(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), 9, 0), true},
		{"day before cutoff", at(model.AddDays(cutoff, -1), 18, 0), true},
		{"cutoff day", at(cutoff, 23, 59), true},
		{"day after cutoff", at(model.AddDays(cutoff, 1), 0, 1), false},
		{"month later", at(model.AddDays(cutoff, 30), 12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupSchedulingService(t, 3, tt.now, tajik(1))

			ok, err := f.svc.CheckDeadline(context.Background(), 1, model.ServiceInitialRegistration)

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestCheckDeadline_ComparesCalendarDatesAcrossZones(t *testing.T) {
	office := time.FixedZone("office", -5*60*60)
	// 16 сентября 20:00 по офису - ещё последний день срока, хотя в UTC уже 17-е
	now := time.Date(2024, 9, 16, 20, 0, 0, 0, office)
	f := setupSchedulingService(t, 3, now, tajik(1))

	ok, err := f.svc.CheckDeadline(context.Background(), 1, model.ServiceVisa)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckDeadline_UserNotFound(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0))

	_, err := f.svc.CheckDeadline(context.Background(), 404, model.ServiceVisa)

	assert.ErrorIs(t, err, model.ErrUserNotFound)
	assert.Equal(t, 1, f.metrics.failures["check_deadline"])
}

// ── DaysWithFreeSlots ──

func TestDaysWithFreeSlots_UntilCutoffInclusive(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0), tajik(1))

	days, err := f.svc.DaysWithFreeSlots(context.Background(), 1, monday, model.ServiceVisa)

	require.NoError(t, err)
	// 2-6 и 9-13 сентября, плюс 16 сентября (последний день срока)
	require.Len(t, days, 11)
	assert.Equal(t, monday, days[0])
	assert.Equal(t, time.Date(2024, 9, 16, 0, 0, 0, 0, time.UTC), days[10])
	for i := 1; i < len(days); i++ {
		assert.True(t, days[i-1].Before(days[i]))
		assert.NotEqual(t, time.Saturday, days[i].Weekday())
		assert.NotEqual(t, time.Sunday, days[i].Weekday())
	}
}

func TestDaysWithFreeSlots_SkipsFullyBookedDay(t *testing.T) {
	f := setupSchedulingService(t, 1, at(monday, 8, 0), tajik(1))

	factory, err := schedule.NewFixedSlotFactory(1, 20*time.Minute)
	require.NoError(t, err)
	for i, slot := range factory.CreateAll(tuesday, schedule.DefaultSplitHoursPolicy()) {
		f.store.put(slot.Start(), reservation(int64(100+i)))
	}

	days, err := f.svc.DaysWithFreeSlots(context.Background(), 1, monday, model.ServiceVisa)

	require.NoError(t, err)
	assert.Len(t, days, 10)
	assert.NotContains(t, days, tuesday)
}

func TestDaysWithFreeSlots_LookAheadForServiceWithoutDeadline(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0), tajik(1))

	days, err := f.svc.DaysWithFreeSlots(context.Background(), 1, monday, model.ServiceRenewalOfRegistration)

	require.NoError(t, err)
	// рабочие дни со 2 сентября по 1 октября включительно
	require.Len(t, days, 22)
	assert.Equal(t, time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), days[len(days)-1])
}

func TestDaysWithFreeSlots_CutoffPassed(t *testing.T) {
	f := setupSchedulingService(t, 3, at(time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC), 9, 0), tajik(1))

	days, err := f.svc.DaysWithFreeSlots(context.Background(), 1, time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC), model.ServiceVisa)

	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestDaysWithFreeSlots_SkipsPastSlotsOfToday(t *testing.T) {
	// пятница 6 сентября 16:30 - рабочий день уже закончился
	friday := model.AddDays(monday, 4)
	f := setupSchedulingService(t, 3, at(friday, 16, 30), tajik(1))

	days, err := f.svc.DaysWithFreeSlots(context.Background(), 1, friday, model.ServiceVisa)

	require.NoError(t, err)
	require.NotEmpty(t, days)
	assert.Equal(t, nextMon, days[0])
}

func TestDaysWithFreeSlots_UserNotFound(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0))

	_, err := f.svc.DaysWithFreeSlots(context.Background(), 404, monday, model.ServiceRenewalOfVisa)

	var notFound *model.UserNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, int64(404), notFound.UserID)
}

// ── FreeSlots ──

func TestFreeSlots_ExcludesFullSlots(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0))
	f.store.put(at(nextMon, 10, 0), reservation(1), reservation(2))
	f.store.put(at(nextMon, 10, 20), reservation(1), reservation(2), reservation(3))

	free, err := f.svc.FreeSlots(context.Background(), nextMon)

	require.NoError(t, err)
	require.Len(t, free, 16)
	assert.Equal(t, FreeSlot{Start: at(nextMon, 10, 0), End: at(nextMon, 10, 20)}, free[0])
	assert.Equal(t, at(nextMon, 10, 40), free[1].Start)
	for _, s := range free {
		assert.False(t, s.Start.Equal(at(nextMon, 10, 20)))
	}
}

func TestFreeSlots_SkipsStartedSlots(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 11, 0))

	free, err := f.svc.FreeSlots(context.Background(), monday)

	require.NoError(t, err)
	require.Len(t, free, 14)
	assert.Equal(t, at(monday, 11, 0), free[0].Start)
}

func TestFreeSlots_Weekend(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0))

	free, err := f.svc.FreeSlots(context.Background(), model.AddDays(monday, 5))

	require.NoError(t, err)
	assert.Empty(t, free)
}

// ── ReserveSlot ──

func TestReserveSlot_Success(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0), tajik(1))

	err := f.svc.ReserveSlot(context.Background(), 1, at(tuesday, 10, 40), model.ServiceInsurance)

	require.NoError(t, err)
	stored := f.store.reservations[at(tuesday, 10, 40).Unix()]
	require.Len(t, stored, 1)
	assert.Equal(t, int64(1), stored[0].User.ID)
	assert.Equal(t, model.ServiceInsurance, stored[0].Service)
	assert.Equal(t, 1, f.metrics.created)
}

func TestReserveSlot_KeepsExistingReservations(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0), tajik(1))
	f.store.put(at(tuesday, 10, 40), reservation(7))

	require.NoError(t, f.svc.ReserveSlot(context.Background(), 1, at(tuesday, 10, 40), model.ServiceVisa))

	stored := f.store.reservations[at(tuesday, 10, 40).Unix()]
	require.Len(t, stored, 2)
	assert.Equal(t, int64(7), stored[0].User.ID)
	assert.Equal(t, int64(1), stored[1].User.ID)
}

func TestReserveSlot_OutsideWorkingHours(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0), tajik(1))

	for _, when := range []time.Time{
		at(tuesday, 9, 0),
		at(tuesday, 12, 40),
		at(tuesday, 10, 5),
		at(model.AddDays(monday, 5), 10, 0),
	} {
		err := f.svc.ReserveSlot(context.Background(), 1, when, model.ServiceVisa)
		assert.ErrorIs(t, err, model.ErrSlotNotFound, when.String())
	}
	assert.Equal(t, 0, f.store.saves)
}

func TestReserveSlot_FullyBooked(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0), tajik(1))
	f.store.put(at(tuesday, 10, 0), reservation(2), reservation(3), reservation(4))

	err := f.svc.ReserveSlot(context.Background(), 1, at(tuesday, 10, 0), model.ServiceVisa)

	assert.ErrorIs(t, err, model.ErrSlotNotFound)
}

func TestReserveSlot_PastSlot(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 11, 0), tajik(1))

	err := f.svc.ReserveSlot(context.Background(), 1, at(monday, 10, 0), model.ServiceVisa)

	assert.ErrorIs(t, err, model.ErrSlotNotFound)
}

func TestReserveSlot_AlreadyReserved(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0), tajik(1))
	f.store.put(at(tuesday, 10, 0), reservation(1))

	err := f.svc.ReserveSlot(context.Background(), 1, at(tuesday, 10, 0), model.ServiceVisa)

	var dup *model.SlotAlreadyReservedError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, int64(1), dup.UserID)
}

func TestReserveSlot_UserNotFound(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0))

	err := f.svc.ReserveSlot(context.Background(), 1, at(tuesday, 10, 0), model.ServiceVisa)

	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestReserveSlot_ConcurrentModification(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0), tajik(1))
	f.store.saveErr = model.ErrSlotModified

	err := f.svc.ReserveSlot(context.Background(), 1, at(tuesday, 10, 0), model.ServiceVisa)

	assert.ErrorIs(t, err, model.ErrSlotModified)
	assert.Equal(t, 0, f.metrics.created)
	assert.Equal(t, 1, f.metrics.failures["reserve_slot"])
}

// ── CancelReservation ──

func TestCancelReservation_Success(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0), tajik(1))
	f.store.put(at(tuesday, 10, 0), reservation(1), reservation(2))

	err := f.svc.CancelReservation(context.Background(), 1, at(tuesday, 10, 0))

	require.NoError(t, err)
	stored := f.store.reservations[at(tuesday, 10, 0).Unix()]
	require.Len(t, stored, 1)
	assert.Equal(t, int64(2), stored[0].User.ID)
	assert.Equal(t, 1, f.metrics.canceled)
}

func TestCancelReservation_LastReservationEmptiesSlot(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0), tajik(1))
	f.store.put(at(tuesday, 10, 0), reservation(1))

	require.NoError(t, f.svc.CancelReservation(context.Background(), 1, at(tuesday, 10, 0)))

	_, ok := f.store.reservations[at(tuesday, 10, 0).Unix()]
	assert.False(t, ok)
}

func TestCancelReservation_NotReserved(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0), tajik(1))
	f.store.put(at(tuesday, 10, 0), reservation(2))

	err := f.svc.CancelReservation(context.Background(), 1, at(tuesday, 10, 0))

	var notReserved *model.UserNotReservedError
	require.True(t, errors.As(err, &notReserved))
	assert.Equal(t, int64(1), notReserved.UserID)
	assert.Len(t, f.store.reservations[at(tuesday, 10, 0).Unix()], 1)
}

func TestCancelReservation_UserNotFound(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0))

	err := f.svc.CancelReservation(context.Background(), 1, at(tuesday, 10, 0))

	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

// ── Reservations / Slots ──

func TestReservations_FlattenedInSlotAndBookingOrder(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0))
	f.store.put(at(tuesday, 14, 0), reservation(5))
	f.store.put(at(tuesday, 10, 0), reservation(2), reservation(1))

	rows, err := f.svc.Reservations(context.Background(), tuesday)

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(2), rows[0].UserID)
	assert.Equal(t, int64(1), rows[1].UserID)
	assert.Equal(t, int64(5), rows[2].UserID)
	assert.Equal(t, at(tuesday, 10, 0), rows[0].SlotStart)
	assert.Equal(t, at(tuesday, 10, 20), rows[0].SlotEnd)
	assert.Equal(t, "Рахимов Рустам", rows[0].FullNameCyr)
	assert.Equal(t, "Таджикистан", rows[0].Citizenship)
}

func TestReservations_IncludesPastSlots(t *testing.T) {
	f := setupSchedulingService(t, 3, at(tuesday, 18, 0))
	f.store.put(at(tuesday, 10, 0), reservation(1))

	rows, err := f.svc.Reservations(context.Background(), tuesday)

	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSlots_ReportsOccupancy(t *testing.T) {
	f := setupSchedulingService(t, 3, at(monday, 8, 0))
	f.store.put(at(tuesday, 10, 20), reservation(1), reservation(2))

	views, err := f.svc.Slots(context.Background(), tuesday)

	require.NoError(t, err)
	require.Len(t, views, 17)
	assert.Equal(t, 0, views[0].Reserved)
	assert.Equal(t, 2, views[1].Reserved)
	assert.Equal(t, 3, views[1].MaxSize)
}

// ── Слот переполнен после уменьшения вместимости ──

func TestOverfullSlot_DayStillServed(t *testing.T) {
	f := setupSchedulingService(t, 2, at(monday, 8, 0), tajik(1))
	f.store.put(at(tuesday, 10, 0), reservation(1), reservation(2), reservation(3))
	ctx := context.Background()

	free, err := f.svc.FreeSlots(ctx, tuesday)
	require.NoError(t, err)
	for _, s := range free {
		assert.False(t, s.Start.Equal(at(tuesday, 10, 0)))
	}

	rows, err := f.svc.Reservations(ctx, tuesday)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	views, err := f.svc.Slots(ctx, tuesday)
	require.NoError(t, err)
	assert.Equal(t, 3, views[0].Reserved)
	assert.Equal(t, 2, views[0].MaxSize)

	require.NoError(t, f.svc.CancelReservation(ctx, 1, at(tuesday, 10, 0)))
	assert.Len(t, f.store.reservations[at(tuesday, 10, 0).Unix()], 2)

	err = f.svc.ReserveSlot(ctx, 1, at(tuesday, 10, 0), model.ServiceVisa)
	assert.ErrorIs(t, err, model.ErrSlotNotFound)
}
