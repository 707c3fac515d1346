package model

import (
	"fmt"
	"time"
)

// Comparable тип с трёхзначным сравнением, как у time.Time
type Comparable[T any] interface {
	Compare(other T) int
}

// ClosedRange упорядоченная пара границ [Start, End]
// Start <= End обеспечивается тем, кто создаёт диапазон
type ClosedRange[T Comparable[T]] struct {
	Start T
	End   T
}

// NewClosedRange создаёт диапазон
func NewClosedRange[T Comparable[T]](start, end T) ClosedRange[T] {
	return ClosedRange[T]{Start: start, End: end}
}

// Contains проверяет что диапазон целиком содержит other
func (r ClosedRange[T]) Contains(other ClosedRange[T]) bool {
	return r.Start.Compare(other.Start) <= 0 && r.End.Compare(other.End) >= 0
}

// Overlaps проверяет пересечение открытых интервалов, касание границ не считается
func (r ClosedRange[T]) Overlaps(other ClosedRange[T]) bool {
	return r.Start.Compare(other.End) < 0 && r.End.Compare(other.Start) > 0
}

// TimeOfDay время суток с точностью до минуты
type TimeOfDay struct {
	minutes int
}

// NewTimeOfDay создаёт время суток из часов и минут
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: time of day %02d:%02d", ErrInvalidValue, hour, minute)
	}
	return TimeOfDay{minutes: hour*60 + minute}, nil
}

// MustTimeOfDay как NewTimeOfDay, но паникует на неверном значении
func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay разбирает строку вида "10:00"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: time of day %q", ErrInvalidValue, s)
	}
	return NewTimeOfDay(parsed.Hour(), parsed.Minute())
}

// TimeOfDayOf возвращает время суток момента t
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{minutes: t.Hour()*60 + t.Minute()}
}

func (t TimeOfDay) Hour() int   { return t.minutes / 60 }
func (t TimeOfDay) Minute() int { return t.minutes % 60 }

// Compare сравнивает два времени суток
func (t TimeOfDay) Compare(other TimeOfDay) int {
	switch {
	case t.minutes < other.minutes:
		return -1
	case t.minutes > other.minutes:
		return 1
	default:
		return 0
	}
}

// On возвращает момент этого времени в указанный день
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, date.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// TimeInterval интервал в пределах одних суток, Start < End
type TimeInterval struct {
	ClosedRange[time.Time]
}

// NewTimeInterval создаёт интервал, отказывая если он пустой или пересекает полночь
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !start.Before(end) {
		return TimeInterval{}, fmt.Errorf("%w: start %s is not before end %s",
			ErrInvalidInterval, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	if !SameDay(start, end.In(start.Location())) {
		return TimeInterval{}, fmt.Errorf("%w: %s and %s are on different days",
			ErrInvalidInterval, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeInterval{ClosedRange: NewClosedRange(start, end)}, nil
}

// Date возвращает полночь дня интервала
func (i TimeInterval) Date() time.Time {
	return DateOf(i.Start)
}

// Clock возвращает интервал как диапазон времени суток
func (i TimeInterval) Clock() ClosedRange[TimeOfDay] {
	return NewClosedRange(TimeOfDayOf(i.Start), TimeOfDayOf(i.End))
}

// Duration длительность интервала
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// DateOf отбрасывает время суток, оставляя полночь в той же зоне
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay проверяет что моменты приходятся на один календарный день
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AddDays сдвигает дату на n календарных дней
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}
