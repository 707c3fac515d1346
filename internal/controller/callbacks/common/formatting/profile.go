package formatting

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/umdbot/migration_bot/internal/model"
	"github.com/umdbot/migration_bot/internal/schedule"
	"github.com/umdbot/migration_bot/internal/service"
)

// FormatProfile карточка пользователя
func FormatProfile(user model.User) string {
	return fmt.Sprintf(
		"📋 <b>Ваши данные</b>\n\n"+
			"👤 Имя (лат): %s\n"+
			"👤 Имя (кир): %s\n"+
			"🌍 Гражданство: %s\n"+
			"📅 Дата прибытия: %s",
		html.EscapeString(user.FullNameLat.String()),
		html.EscapeString(user.FullNameCyr.String()),
		html.EscapeString(user.Citizenship.String()),
		FormatDate(user.ArrivalDate),
	)
}

// FormatReservation услуга и время записи
func FormatReservation(svc model.Service, start time.Time) string {
	return fmt.Sprintf(
		"Услуга: «%s»\nВремя: %s, %s",
		svc.Label(),
		FormatDateWithWeekday(start),
		FormatTime(start),
	)
}

// FormatReserveIntro первый экран записи
func FormatReserveIntro(policy schedule.DeadlinePolicy) string {
	text := "📝 <b>Запись на приём</b>\n\nВыберите услугу:"
	if policy != nil {
		text += "\n\n" + FormatDeadlines(policy)
	}
	return text
}

// FormatDeadlines сроки записи по гражданству для услуг со сроком
func FormatDeadlines(policy schedule.DeadlinePolicy) string {
	var sb strings.Builder
	sb.WriteString("Для услуг ")
	labels := make([]string, 0, len(model.Services))
	for _, s := range model.Services {
		if s.HasDeadline() {
			labels = append(labels, "«"+s.Label()+"»")
		}
	}
	sb.WriteString(strings.Join(labels, ", "))
	sb.WriteString(" записаться нужно в течение срока от даты прибытия:\n")

	for _, c := range model.KnownCitizenships {
		days := policy.Deadline(c)
		sb.WriteString(fmt.Sprintf("• %s: %d %s\n", c, days, PluralizeDays(days)))
	}
	other := policy.Deadline(model.Citizenship(""))
	sb.WriteString(fmt.Sprintf("• другие страны: %d %s", other, PluralizeDays(other)))
	return sb.String()
}

// FormatSlotsOverview заполненность слотов дня для администратора
func FormatSlotsOverview(date time.Time, views []service.SlotView) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗓 <b>%s</b>\n\n", FormatDateWithWeekday(date)))

	if len(views) == 0 {
		sb.WriteString("Приёма нет")
		return sb.String()
	}

	total := 0
	for _, v := range views {
		mark := "🟢"
		switch {
		case v.Reserved >= v.MaxSize:
			mark = "🔴"
		case v.Reserved > 0:
			mark = "🟡"
		}
		line := fmt.Sprintf("%s %s  %d/%d", mark, FormatTimeRange(v.Start, v.End), v.Reserved, v.MaxSize)
		if free := v.MaxSize - v.Reserved; free > 0 {
			line += fmt.Sprintf(" (ещё %d %s)", free, PluralizeSeats(free))
		}
		sb.WriteString(line + "\n")
		total += v.Reserved
	}
	sb.WriteString(fmt.Sprintf("\nВсего: %s", CountReservations(total)))
	return sb.String()
}
