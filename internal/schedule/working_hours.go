package schedule

import (
	"time"

	"github.com/umdbot/migration_bot/internal/model"
)

// WorkingHoursPolicy определяет рабочее время приёма
type WorkingHoursPolicy interface {
	// Bounds возвращает рабочие часы дня, false если день нерабочий
	Bounds(date time.Time) (model.TimeInterval, bool)
	// IsWorking проверяет что интервал целиком приходится на рабочее время
	IsWorking(interval model.TimeInterval) bool
}

// WeekdayPolicy приём с понедельника по пятницу весь день без перерывов
type WeekdayPolicy struct{}

func NewWeekdayPolicy() WeekdayPolicy {
	return WeekdayPolicy{}
}

func (WeekdayPolicy) Bounds(date time.Time) (model.TimeInterval, bool) {
	if isWeekend(date.Weekday()) {
		return model.TimeInterval{}, false
	}
	start := model.DateOf(date)
	interval, err := model.NewTimeInterval(start, model.AddDays(start, 1).Add(-time.Nanosecond))
	if err != nil {
		return model.TimeInterval{}, false
	}
	return interval, true
}

func (WeekdayPolicy) IsWorking(interval model.TimeInterval) bool {
	return !isWeekend(interval.Start.Weekday())
}

// SplitHoursPolicy понедельник-четверг одни часы, пятница короче,
// обед исключается в любой рабочий день
type SplitHoursPolicy struct {
	weekdayHours model.ClosedRange[model.TimeOfDay]
	fridayHours  model.ClosedRange[model.TimeOfDay]
	lunch        model.ClosedRange[model.TimeOfDay]
}

// NewSplitHoursPolicy создаёт политику из рабочих часов и обеда
func NewSplitHoursPolicy(weekdayHours, fridayHours, lunch model.ClosedRange[model.TimeOfDay]) SplitHoursPolicy {
	return SplitHoursPolicy{
		weekdayHours: weekdayHours,
		fridayHours:  fridayHours,
		lunch:        lunch,
	}
}

// DefaultSplitHoursPolicy пн-чт 10:00-17:00, пт 12:00-16:00, обед 12:30-13:30
func DefaultSplitHoursPolicy() SplitHoursPolicy {
	return NewSplitHoursPolicy(
		model.NewClosedRange(model.MustTimeOfDay(10, 0), model.MustTimeOfDay(17, 0)),
		model.NewClosedRange(model.MustTimeOfDay(12, 0), model.MustTimeOfDay(16, 0)),
		model.NewClosedRange(model.MustTimeOfDay(12, 30), model.MustTimeOfDay(13, 30)),
	)
}

func (p SplitHoursPolicy) hours(weekday time.Weekday) (model.ClosedRange[model.TimeOfDay], bool) {
	switch weekday {
	case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
		return p.weekdayHours, true
	case time.Friday:
		return p.fridayHours, true
	default:
		return model.ClosedRange[model.TimeOfDay]{}, false
	}
}

func (p SplitHoursPolicy) Bounds(date time.Time) (model.TimeInterval, bool) {
	hours, ok := p.hours(date.Weekday())
	if !ok {
		return model.TimeInterval{}, false
	}
	interval, err := model.NewTimeInterval(hours.Start.On(date), hours.End.On(date))
	if err != nil {
		return model.TimeInterval{}, false
	}
	return interval, true
}

func (p SplitHoursPolicy) IsWorking(interval model.TimeInterval) bool {
	hours, ok := p.hours(interval.Start.Weekday())
	if !ok {
		return false
	}
	clock := interval.Clock()
	return hours.Contains(clock) && !p.lunch.Overlaps(clock)
}

// HolidayPolicy закрывает перечисленные даты поверх другой политики
type HolidayPolicy struct {
	base     WorkingHoursPolicy
	holidays map[string]struct{}
}

// NewHolidayPolicy оборачивает политику списком нерабочих дат
func NewHolidayPolicy(base WorkingHoursPolicy, holidays []time.Time) HolidayPolicy {
	set := make(map[string]struct{}, len(holidays))
	for _, d := range holidays {
		set[dateKey(d)] = struct{}{}
	}
	return HolidayPolicy{base: base, holidays: set}
}

func (p HolidayPolicy) isHoliday(t time.Time) bool {
	_, ok := p.holidays[dateKey(t)]
	return ok
}

func (p HolidayPolicy) Bounds(date time.Time) (model.TimeInterval, bool) {
	if p.isHoliday(date) {
		return model.TimeInterval{}, false
	}
	return p.base.Bounds(date)
}

func (p HolidayPolicy) IsWorking(interval model.TimeInterval) bool {
	if p.isHoliday(interval.Start) {
		return false
	}
	return p.base.IsWorking(interval)
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
