package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/umdbot/migration_bot/internal/service"
)

const (
	timeLayout = "15:04"
	dateLayout = "02.01.2006"
)

// Header колонки таблицы записей
var Header = []string{
	"#",
	"Начало",
	"Конец",
	"Услуга",
	"Telegram",
	"ФИО (лат)",
	"ФИО (кир)",
	"Гражданство",
	"Дата прибытия",
}

// FileName имя файла выгрузки за день, ext без точки
func FileName(date time.Time, ext string) string {
	return fmt.Sprintf("slots_%s.%s", date.Format("2006-01-02"), ext)
}

// record строка таблицы для i-й записи (нумерация с 1)
func record(i int, r service.ReservationRow) []string {
	return []string{
		strconv.Itoa(i + 1),
		r.SlotStart.Format(timeLayout),
		r.SlotEnd.Format(timeLayout),
		r.Service.Label(),
		telegramLink(r.Username),
		r.FullNameLat,
		r.FullNameCyr,
		r.Citizenship,
		r.ArrivalDate.Format(dateLayout),
	}
}

func telegramLink(username string) string {
	if username == "" {
		return ""
	}
	return "t.me/" + username
}
