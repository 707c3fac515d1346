package formatting

import "fmt"

// pluralize выбирает форму слова для числа: 1 запись, 2 записи, 5 записей
func pluralize(count int, one, few, many string) string {
	n := count % 100
	if n < 0 {
		n = -n
	}
	if n%10 == 1 && n != 11 {
		return one
	}
	if n%10 >= 2 && n%10 <= 4 && (n < 10 || n >= 20) {
		return few
	}
	return many
}

// PluralizeReservations возвращает правильное склонение слова "запись"
func PluralizeReservations(count int) string {
	return pluralize(count, "запись", "записи", "записей")
}

// PluralizeSeats возвращает правильное склонение слова "место"
func PluralizeSeats(count int) string {
	return pluralize(count, "место", "места", "мест")
}

// PluralizeDays возвращает правильное склонение слова "день"
func PluralizeDays(count int) string {
	return pluralize(count, "день", "дня", "дней")
}

// CountReservations "3 записи"
func CountReservations(count int) string {
	return fmt.Sprintf("%d %s", count, PluralizeReservations(count))
}
