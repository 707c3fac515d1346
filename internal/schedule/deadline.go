package schedule

import (
	"time"

	"github.com/umdbot/migration_bot/internal/model"
)

// DefaultLookAheadDays горизонт поиска дней для услуг без срока
const DefaultLookAheadDays = 30

// DeadlinePolicy число дней после прибытия, за которые нужно записаться
type DeadlinePolicy interface {
	Deadline(citizenship model.Citizenship) int
}

// StandardDeadlinePolicy сроки по гражданству
type StandardDeadlinePolicy struct{}

func NewStandardDeadlinePolicy() StandardDeadlinePolicy {
	return StandardDeadlinePolicy{}
}

func (StandardDeadlinePolicy) Deadline(citizenship model.Citizenship) int {
	switch citizenship {
	case model.CitizenshipTajikistan, model.CitizenshipUzbekistan:
		return 15
	case model.CitizenshipKazakhstan, model.CitizenshipKyrgyzstan, model.CitizenshipArmenia:
		return 30
	case model.CitizenshipBelarus, model.CitizenshipUkraine:
		return 90
	default:
		return 7
	}
}

// FixedDeadlinePolicy одинаковый срок для всех
type FixedDeadlinePolicy struct {
	Days int
}

func (p FixedDeadlinePolicy) Deadline(model.Citizenship) int {
	return p.Days
}

// Cutoff последний день, в который пользователь ещё может записаться
func Cutoff(policy DeadlinePolicy, user model.User) time.Time {
	return model.AddDays(model.DateOf(user.ArrivalDate), policy.Deadline(user.Citizenship))
}
