package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/umdbot/migration_bot/internal/model"
	"github.com/umdbot/migration_bot/internal/schedule"
	"go.uber.org/zap"
)

// SchedulingService сценарии поиска, записи и отмены записи на приём
type SchedulingService struct {
	factory       schedule.SlotFactory
	hours         schedule.WorkingHoursPolicy
	deadlines     schedule.DeadlinePolicy
	users         UserProvider
	slots         SlotStore
	lookAheadDays int
	clock         TimeProvider
	metrics       Recorder
	logger        *zap.Logger
}

// SchedulingDeps зависимости SchedulingService
type SchedulingDeps struct {
	Factory       schedule.SlotFactory
	Hours         schedule.WorkingHoursPolicy
	Deadlines     schedule.DeadlinePolicy
	Users         UserProvider
	Slots         SlotStore
	LookAheadDays int
	Clock         TimeProvider
	Metrics       Recorder
}

func NewSchedulingService(deps SchedulingDeps, logger *zap.Logger) *SchedulingService {
	s := &SchedulingService{
		factory:       deps.Factory,
		hours:         deps.Hours,
		deadlines:     deps.Deadlines,
		users:         deps.Users,
		slots:         deps.Slots,
		lookAheadDays: deps.LookAheadDays,
		clock:         deps.Clock,
		metrics:       deps.Metrics,
		logger:        logger,
	}
	if s.lookAheadDays <= 0 {
		s.lookAheadDays = schedule.DefaultLookAheadDays
	}
	if s.clock == nil {
		s.clock = RealTimeProvider{}
	}
	if s.metrics == nil {
		s.metrics = nopRecorder{}
	}
	return s
}

// CheckDeadline проверяет, может ли пользователь ещё записаться на услугу.
// Записаться можно, пока сегодняшняя дата не позже последнего дня срока
func (s *SchedulingService) CheckDeadline(ctx context.Context, userID int64, service model.Service) (ok bool, err error) {
	defer s.observe("check_deadline", time.Now(), &err)

	if !service.HasDeadline() {
		return true, nil
	}

	user, err := s.users.User(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}

	today := s.today()
	cutoff := s.cutoff(user, today.Location())

	return !today.After(cutoff), nil
}

// DaysWithFreeSlots возвращает дни со свободными слотами в порядке возрастания
func (s *SchedulingService) DaysWithFreeSlots(ctx context.Context, userID int64, startDate time.Time, service model.Service) (days []time.Time, err error) {
	defer s.observe("days_with_free_slots", time.Now(), &err)

	user, err := s.users.User(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	today := s.today()
	start := civilDate(startDate, today.Location())
	if start.Before(today) {
		start = today
	}

	// Последний день срока включительно
	end := model.AddDays(start, s.lookAheadDays)
	if service.HasDeadline() {
		end = model.AddDays(s.cutoff(user, today.Location()), 1)
	}

	days = make([]time.Time, 0)
	for date := start; date.Before(end); date = model.AddDays(date, 1) {
		templates := s.bookableTemplates(date)
		if len(templates) == 0 {
			continue
		}

		has, err := s.slots.HasAvailableSlots(ctx, templates)
		if err != nil {
			return nil, fmt.Errorf("check available slots on %s: %w", date.Format(time.DateOnly), err)
		}
		if has {
			days = append(days, date)
		}
	}

	return days, nil
}

// FreeSlots возвращает слоты дня, в которых остались места
func (s *SchedulingService) FreeSlots(ctx context.Context, date time.Time) (free []FreeSlot, err error) {
	defer s.observe("free_slots", time.Now(), &err)

	available, err := s.availableSlots(ctx, date)
	if err != nil {
		return nil, err
	}

	free = make([]FreeSlot, 0, len(available))
	for _, slot := range available {
		free = append(free, FreeSlot{Start: slot.Start(), End: slot.End()})
	}
	return free, nil
}

// ReserveSlot записывает пользователя в слот, начинающийся ровно в at
func (s *SchedulingService) ReserveSlot(ctx context.Context, userID int64, at time.Time, service model.Service) (err error) {
	defer s.observe("reserve_slot", time.Now(), &err)

	user, err := s.users.User(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	available, err := s.availableSlots(ctx, at)
	if err != nil {
		return err
	}

	var slot *model.Slot
	for _, candidate := range available {
		if candidate.Start().Equal(at) {
			slot = candidate
			break
		}
	}
	if slot == nil {
		return model.ErrSlotNotFound
	}

	if err := slot.Reserve(user, service); err != nil {
		return err
	}

	if err := s.slots.SaveSlot(ctx, slot); err != nil {
		return fmt.Errorf("save slot: %w", err)
	}

	s.metrics.ReservationCreated(service)
	s.logger.Info("Slot reserved",
		zap.Int64("user_id", userID),
		zap.Time("slot_start", slot.Start()),
		zap.String("service", string(service)),
		zap.Int("reserved", slot.Len()),
		zap.Int("max_size", slot.MaxSize()),
	)

	return nil
}

// CancelReservation отменяет запись пользователя в слоте, начинающемся в at
func (s *SchedulingService) CancelReservation(ctx context.Context, userID int64, at time.Time) (err error) {
	defer s.observe("cancel_reservation", time.Now(), &err)

	if _, err := s.users.User(ctx, userID); err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	template, err := s.factory.Create(at)
	if err != nil {
		return err
	}

	slot, err := s.slots.ReservedSlot(ctx, template)
	if err != nil {
		return fmt.Errorf("get reserved slot: %w", err)
	}

	if err := slot.Cancel(userID); err != nil {
		return err
	}

	if err := s.slots.SaveSlot(ctx, slot); err != nil {
		return fmt.Errorf("save slot: %w", err)
	}

	s.metrics.ReservationCanceled()
	s.logger.Info("Reservation canceled",
		zap.Int64("user_id", userID),
		zap.Time("slot_start", slot.Start()),
		zap.Int("reserved", slot.Len()),
	)

	return nil
}

// Reservations возвращает все записи дня, по строке на запись
func (s *SchedulingService) Reservations(ctx context.Context, date time.Time) (rows []ReservationRow, err error) {
	defer s.observe("reservations", time.Now(), &err)

	reserved, err := s.reservedSlots(ctx, date)
	if err != nil {
		return nil, err
	}

	rows = make([]ReservationRow, 0)
	for _, slot := range reserved {
		for _, r := range slot.Reservations() {
			rows = append(rows, ReservationRow{
				SlotStart:   slot.Start(),
				SlotEnd:     slot.End(),
				Service:     r.Service,
				UserID:      r.User.ID,
				Username:    r.User.Username,
				FullNameLat: r.User.FullNameLat.String(),
				FullNameCyr: r.User.FullNameCyr.String(),
				Citizenship: r.User.Citizenship.String(),
				ArrivalDate: r.User.ArrivalDate,
			})
		}
	}
	return rows, nil
}

// Slots возвращает заполненность всех слотов дня
func (s *SchedulingService) Slots(ctx context.Context, date time.Time) (views []SlotView, err error) {
	defer s.observe("slots", time.Now(), &err)

	templates := s.factory.CreateAll(date, s.hours)
	reserved, err := s.reservedSlots(ctx, date)
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int, len(reserved))
	for _, slot := range reserved {
		counts[slot.Start().Unix()] = slot.Len()
	}

	views = make([]SlotView, 0, len(templates))
	for _, t := range templates {
		views = append(views, SlotView{
			Start:    t.Start(),
			End:      t.End(),
			Reserved: counts[t.Start().Unix()],
			MaxSize:  t.MaxSize(),
		})
	}
	return views, nil
}

// bookableTemplates шаблоны дня без уже начавшихся слотов
func (s *SchedulingService) bookableTemplates(date time.Time) []*model.Slot {
	now := s.clock.Now()
	all := s.factory.CreateAll(date, s.hours)

	templates := make([]*model.Slot, 0, len(all))
	for _, slot := range all {
		if slot.Start().Before(now) {
			continue
		}
		templates = append(templates, slot)
	}
	return templates
}

func (s *SchedulingService) availableSlots(ctx context.Context, date time.Time) ([]*model.Slot, error) {
	templates := s.bookableTemplates(date)
	if len(templates) == 0 {
		return nil, nil
	}

	available, err := s.slots.AvailableSlots(ctx, templates)
	if err != nil {
		return nil, fmt.Errorf("get available slots: %w", err)
	}

	sortByStart(available)
	return available, nil
}

func (s *SchedulingService) reservedSlots(ctx context.Context, date time.Time) ([]*model.Slot, error) {
	templates := s.factory.CreateAll(date, s.hours)
	if len(templates) == 0 {
		return nil, nil
	}

	reserved, err := s.slots.ReservedSlots(ctx, templates)
	if err != nil {
		return nil, fmt.Errorf("get reserved slots: %w", err)
	}

	sortByStart(reserved)
	return reserved, nil
}

func (s *SchedulingService) today() time.Time {
	return model.DateOf(s.clock.Now())
}

func (s *SchedulingService) cutoff(user model.User, loc *time.Location) time.Time {
	return civilDate(schedule.Cutoff(s.deadlines, user), loc)
}

func (s *SchedulingService) observe(operation string, begin time.Time, err *error) {
	s.metrics.ObserveOperation(operation, *err, time.Since(begin))
}

func sortByStart(slots []*model.Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start().Before(slots[j].Start())
	})
}

// civilDate переносит календарную дату t в зону loc
func civilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
