package common

// Подсказки шагов диалога, общие для команд и кнопок
const (
	PromptAgreement = "👋 Здравствуйте! Это бот записи в миграционный отдел.\n\n" +
		"Для записи нужно зарегистрироваться. Нажимая «Подтверждаю», вы соглашаетесь " +
		"на обработку персональных данных: ФИО, гражданства и даты прибытия."
	PromptNameLat     = "Введите ФИО на латинице, как в паспорте, например:\nIvanov Ivan Ivanovich"
	PromptNameCyr     = "Введите ФИО кириллицей, например:\nИванов Иван Иванович"
	PromptCitizenship = "🌍 Выберите гражданство:"
	PromptOther       = "Введите ваше гражданство:"
	PromptArrival     = "📅 Введите дату прибытия в Россию в формате ДД.ММ.ГГГГ, например 25.08.2024"
	PromptDate        = "📅 Введите дату в формате ДД.ММ.ГГГГ, например 02.09.2024"
	PromptCancel      = "Для отмены используйте /cancel"
)
