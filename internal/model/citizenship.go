package model

import (
	"fmt"
	"strings"
)

// Citizenship гражданство. Значения вне известного списка считаются "другим"
type Citizenship string

const (
	CitizenshipTajikistan Citizenship = "Таджикистан"
	CitizenshipUzbekistan Citizenship = "Узбекистан"
	CitizenshipKazakhstan Citizenship = "Казахстан"
	CitizenshipKyrgyzstan Citizenship = "Кыргызстан"
	CitizenshipArmenia    Citizenship = "Армения"
	CitizenshipBelarus    Citizenship = "Беларусь"
	CitizenshipUkraine    Citizenship = "Украина"
)

// KnownCitizenships известные гражданства в порядке показа
var KnownCitizenships = []Citizenship{
	CitizenshipTajikistan,
	CitizenshipUzbekistan,
	CitizenshipKazakhstan,
	CitizenshipKyrgyzstan,
	CitizenshipArmenia,
	CitizenshipBelarus,
	CitizenshipUkraine,
}

// ParseCitizenship принимает любое непустое название
func ParseCitizenship(text string) (Citizenship, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty citizenship", ErrInvalidValue)
	}
	return Citizenship(text), nil
}

// IsOther сообщает что гражданство не из известного списка
func (c Citizenship) IsOther() bool {
	for _, known := range KnownCitizenships {
		if c == known {
			return false
		}
	}
	return true
}

func (c Citizenship) String() string {
	return string(c)
}
