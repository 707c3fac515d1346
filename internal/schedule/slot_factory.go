package schedule

import (
	"fmt"
	"time"

	"github.com/umdbot/migration_bot/internal/model"
)

// SlotFactory создаёт пустые шаблоны слотов
type SlotFactory interface {
	// Create создаёт один слот, начинающийся в start
	Create(start time.Time) (*model.Slot, error)
	// CreateAll создаёт все рабочие слоты дня в хронологическом порядке
	CreateAll(date time.Time, policy WorkingHoursPolicy) []*model.Slot
}

// FixedSlotFactory слоты фиксированной длительности и вместимости
type FixedSlotFactory struct {
	maxSize  int
	duration time.Duration
}

// NewFixedSlotFactory создаёт фабрику слотов
func NewFixedSlotFactory(maxSize int, duration time.Duration) (*FixedSlotFactory, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: slot capacity %d", model.ErrInvalidValue, maxSize)
	}
	if duration <= 0 || duration > 24*time.Hour {
		return nil, fmt.Errorf("%w: slot duration %s", model.ErrInvalidValue, duration)
	}
	return &FixedSlotFactory{maxSize: maxSize, duration: duration}, nil
}

func (f *FixedSlotFactory) MaxSize() int            { return f.maxSize }
func (f *FixedSlotFactory) Duration() time.Duration { return f.duration }

func (f *FixedSlotFactory) Create(start time.Time) (*model.Slot, error) {
	interval, err := model.NewTimeInterval(start, start.Add(f.duration))
	if err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return model.NewSlot(interval, f.maxSize), nil
}

func (f *FixedSlotFactory) CreateAll(date time.Time, policy WorkingHoursPolicy) []*model.Slot {
	day := model.DateOf(date)
	slots := make([]*model.Slot, 0)

	for start := day; model.SameDay(start, day); start = start.Add(f.duration) {
		interval, err := model.NewTimeInterval(start, start.Add(f.duration))
		if err != nil {
			// последний кандидат пересекает полночь
			break
		}
		if !policy.IsWorking(interval) {
			continue
		}
		slots = append(slots, model.NewSlot(interval, f.maxSize))
	}

	return slots
}
