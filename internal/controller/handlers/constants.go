package handlers

// DateLayouts форматы даты, которые принимаются в диалогах
var DateLayouts = []string{"02.01.2006", "2006.01.02"}

// Форматы выгрузки для /table и /table_xlsx
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Тексты подсказок при неверном вводе
const (
	InvalidNameLat = "❌ ФИО должно быть на латинице: только латинские буквы, пробелы и дефис.\n\nПопробуйте ещё раз:"
	InvalidNameCyr = "❌ ФИО должно быть кириллицей: только русские буквы, пробелы и дефис.\n\nПопробуйте ещё раз:"
	InvalidOther   = "❌ Гражданство не может быть пустым.\n\nПопробуйте ещё раз:"
	InvalidDate    = "❌ Неверная дата. Используйте формат ДД.ММ.ГГГГ, например 25.08.2024"
	InvalidArrival = "❌ Дата прибытия не может быть в будущем.\n\nПопробуйте ещё раз:"
)
