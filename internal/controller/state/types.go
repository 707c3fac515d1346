package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Регистрация
	StateRegistrationAgreement        UserState = "registration_agreement"
	StateRegistrationNameLat          UserState = "registration_name_lat"
	StateRegistrationNameCyr          UserState = "registration_name_cyr"
	StateRegistrationCitizenship      UserState = "registration_citizenship"
	StateRegistrationOtherCitizenship UserState = "registration_other_citizenship"
	StateRegistrationArrivalDate      UserState = "registration_arrival_date"

	// Обновление профиля
	StateUpdateField            UserState = "update_field"
	StateUpdateNameLat          UserState = "update_name_lat"
	StateUpdateNameCyr          UserState = "update_name_cyr"
	StateUpdateCitizenship      UserState = "update_citizenship"
	StateUpdateOtherCitizenship UserState = "update_other_citizenship"
	StateUpdateArrivalDate      UserState = "update_arrival_date"

	// Администратор
	StateAdminTableDate UserState = "admin_table_date"
	StateAdminSlotsDate UserState = "admin_slots_date"
)

// Ключи временных данных диалога
const (
	KeyNameLat     = "name_lat"
	KeyNameCyr     = "name_cyr"
	KeyCitizenship = "citizenship"
	KeyFormat      = "format"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]string
}
