package model

import "fmt"

// Service категория услуги, на которую записывается пользователь
type Service string

const (
	ServiceInitialRegistration   Service = "initial_registration"
	ServiceVisa                  Service = "visa"
	ServiceInsurance             Service = "insurance"
	ServiceVisaAndInsurance      Service = "visa_and_insurance"
	ServiceRenewalOfRegistration Service = "renewal_of_registration"
	ServiceRenewalOfVisa         Service = "renewal_of_visa"
	ServiceAll                   Service = "all"
)

// Services все услуги в порядке показа
var Services = []Service{
	ServiceInitialRegistration,
	ServiceVisa,
	ServiceInsurance,
	ServiceVisaAndInsurance,
	ServiceRenewalOfRegistration,
	ServiceRenewalOfVisa,
	ServiceAll,
}

var serviceLabels = map[Service]string{
	ServiceInitialRegistration:   "Первичная регистрация",
	ServiceVisa:                  "Получение визы",
	ServiceInsurance:             "Страховка",
	ServiceVisaAndInsurance:      "Виза и страховка",
	ServiceRenewalOfRegistration: "Продление регистрации",
	ServiceRenewalOfVisa:         "Продление визы",
	ServiceAll:                   "Все услуги",
}

// ParseService разбирает код услуги
func ParseService(code string) (Service, error) {
	s := Service(code)
	if _, ok := serviceLabels[s]; !ok {
		return "", fmt.Errorf("%w: service %q", ErrInvalidValue, code)
	}
	return s, nil
}

// HasDeadline сообщает, ограничена ли запись на услугу сроком после прибытия
func (s Service) HasDeadline() bool {
	switch s {
	case ServiceInitialRegistration, ServiceVisa, ServiceInsurance, ServiceVisaAndInsurance, ServiceAll:
		return true
	default:
		return false
	}
}

// Label название услуги для пользователя
func (s Service) Label() string {
	if label, ok := serviceLabels[s]; ok {
		return label
	}
	return string(s)
}

func (s Service) String() string {
	return string(s)
}
