package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

type User struct {
	ID          int64        `json:"id"` // Telegram ID
	Username    string       `json:"username"`
	FullNameLat LatinName    `json:"full_name_lat"`
	FullNameCyr CyrillicName `json:"full_name_cyr"`
	Citizenship Citizenship  `json:"citizenship"`
	ArrivalDate time.Time    `json:"arrival_date"`
}

// LatinName ФИО латиницей, как в паспорте
type LatinName string

// CyrillicName ФИО кириллицей
type CyrillicName string

// NewLatinName проверяет что имя состоит из латинских букв, пробелов и дефисов
func NewLatinName(s string) (LatinName, error) {
	s = strings.TrimSpace(s)
	if !onlyRunes(s, isLatinRune) {
		return "", fmt.Errorf("%w: latin name %q", ErrInvalidValue, s)
	}
	return LatinName(s), nil
}

// NewCyrillicName проверяет что имя состоит из кириллицы, пробелов и дефисов
func NewCyrillicName(s string) (CyrillicName, error) {
	s = strings.TrimSpace(s)
	if !onlyRunes(s, isCyrillicRune) {
		return "", fmt.Errorf("%w: cyrillic name %q", ErrInvalidValue, s)
	}
	return CyrillicName(s), nil
}

func (n LatinName) String() string    { return string(n) }
func (n CyrillicName) String() string { return string(n) }

func onlyRunes(s string, allowed func(rune) bool) bool {
	if s == "" || !utf8.ValidString(s) {
		return false
	}
	letters := 0
	for _, r := range s {
		if r == ' ' || r == '-' {
			continue
		}
		if !allowed(r) {
			return false
		}
		letters++
	}
	return letters > 0
}

func isLatinRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isCyrillicRune(r rune) bool {
	return (r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') || r == 'ё' || r == 'Ё'
}
