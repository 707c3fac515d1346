package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/umdbot/migration_bot/internal/model"
	"github.com/umdbot/migration_bot/internal/schedule"
)

const (
	PolicySplit   = "split"
	PolicyWeekday = "weekday"

	DeadlineStandard = "standard"
	DeadlineFixed    = "fixed"
)

// Schedule настройки расписания приёма из TOML-файла
type Schedule struct {
	Capacity      int            `toml:"capacity"`
	SlotMinutes   int            `toml:"slot_minutes"`
	LookAheadDays int            `toml:"look_ahead_days"`
	Hours         HoursConfig    `toml:"hours"`
	Holidays      []string       `toml:"holidays"`
	Deadline      DeadlineConfig `toml:"deadline"`
}

type HoursConfig struct {
	Policy       string `toml:"policy"`
	WeekdayOpen  string `toml:"weekday_open"`
	WeekdayClose string `toml:"weekday_close"`
	FridayOpen   string `toml:"friday_open"`
	FridayClose  string `toml:"friday_close"`
	LunchStart   string `toml:"lunch_start"`
	LunchEnd     string `toml:"lunch_end"`
}

type DeadlineConfig struct {
	Mode string `toml:"mode"`
	Days int    `toml:"days"`
}

// DefaultSchedule расписание офиса по умолчанию
func DefaultSchedule() Schedule {
	return Schedule{
		Capacity:      3,
		SlotMinutes:   20,
		LookAheadDays: schedule.DefaultLookAheadDays,
		Hours: HoursConfig{
			Policy:       PolicySplit,
			WeekdayOpen:  "10:00",
			WeekdayClose: "17:00",
			FridayOpen:   "12:00",
			FridayClose:  "16:00",
			LunchStart:   "12:30",
			LunchEnd:     "13:30",
		},
		Deadline: DeadlineConfig{Mode: DeadlineStandard},
	}
}

// LoadSchedule читает файл поверх значений по умолчанию.
// Пустой путь означает расписание по умолчанию
func LoadSchedule(path string) (Schedule, error) {
	cfg := DefaultSchedule()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Schedule{}, fmt.Errorf("decode schedule config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ParseSchedule разбирает TOML из строки
func ParseSchedule(data string) (Schedule, error) {
	cfg := DefaultSchedule()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Schedule{}, fmt.Errorf("decode schedule config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (s Schedule) Validate() error {
	if s.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", s.Capacity)
	}
	if s.SlotMinutes <= 0 {
		return fmt.Errorf("slot_minutes must be positive, got %d", s.SlotMinutes)
	}
	if s.LookAheadDays <= 0 {
		return fmt.Errorf("look_ahead_days must be positive, got %d", s.LookAheadDays)
	}
	switch s.Hours.Policy {
	case PolicySplit, PolicyWeekday:
	default:
		return fmt.Errorf("unknown hours policy %q", s.Hours.Policy)
	}
	switch s.Deadline.Mode {
	case DeadlineStandard:
	case DeadlineFixed:
		if s.Deadline.Days <= 0 {
			return fmt.Errorf("fixed deadline days must be positive, got %d", s.Deadline.Days)
		}
	default:
		return fmt.Errorf("unknown deadline mode %q", s.Deadline.Mode)
	}
	return nil
}

// SlotFactory фабрика слотов с заданной вместимостью и длительностью
func (s Schedule) SlotFactory() (*schedule.FixedSlotFactory, error) {
	return schedule.NewFixedSlotFactory(s.Capacity, time.Duration(s.SlotMinutes)*time.Minute)
}

// WorkingHours политика рабочего времени с учётом праздников в loc
func (s Schedule) WorkingHours(loc *time.Location) (schedule.WorkingHoursPolicy, error) {
	var policy schedule.WorkingHoursPolicy

	switch s.Hours.Policy {
	case PolicyWeekday:
		policy = schedule.NewWeekdayPolicy()
	case PolicySplit:
		weekday, err := parseRange(s.Hours.WeekdayOpen, s.Hours.WeekdayClose)
		if err != nil {
			return nil, fmt.Errorf("weekday hours: %w", err)
		}
		friday, err := parseRange(s.Hours.FridayOpen, s.Hours.FridayClose)
		if err != nil {
			return nil, fmt.Errorf("friday hours: %w", err)
		}
		lunch, err := parseRange(s.Hours.LunchStart, s.Hours.LunchEnd)
		if err != nil {
			return nil, fmt.Errorf("lunch: %w", err)
		}
		policy = schedule.NewSplitHoursPolicy(weekday, friday, lunch)
	default:
		return nil, fmt.Errorf("unknown hours policy %q", s.Hours.Policy)
	}

	if len(s.Holidays) == 0 {
		return policy, nil
	}

	holidays := make([]time.Time, 0, len(s.Holidays))
	for _, raw := range s.Holidays {
		d, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", raw, err)
		}
		holidays = append(holidays, d)
	}
	return schedule.NewHolidayPolicy(policy, holidays), nil
}

// Deadlines политика сроков записи
func (s Schedule) Deadlines() schedule.DeadlinePolicy {
	if s.Deadline.Mode == DeadlineFixed {
		return schedule.FixedDeadlinePolicy{Days: s.Deadline.Days}
	}
	return schedule.NewStandardDeadlinePolicy()
}

func parseRange(from, to string) (model.ClosedRange[model.TimeOfDay], error) {
	start, err := model.ParseTimeOfDay(from)
	if err != nil {
		return model.ClosedRange[model.TimeOfDay]{}, err
	}
	end, err := model.ParseTimeOfDay(to)
	if err != nil {
		return model.ClosedRange[model.TimeOfDay]{}, err
	}
	if start.Compare(end) >= 0 {
		return model.ClosedRange[model.TimeOfDay]{}, fmt.Errorf("%s-%s: %w", from, to, model.ErrInvalidInterval)
	}
	return model.NewClosedRange(start, end), nil
}
