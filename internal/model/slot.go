package model

import "time"

// Reservation запись пользователя на услугу в слоте.
// ID пуст, пока запись не сохранена
type Reservation struct {
	ID      string
	User    User
	Service Service
}

// Slot окно приёма с ограниченным числом мест
type Slot struct {
	interval     TimeInterval
	maxSize      int
	reservations []Reservation
	loaded       []string
}

// NewSlot создаёт пустой слот
func NewSlot(interval TimeInterval, maxSize int) *Slot {
	return &Slot{
		interval:     interval,
		maxSize:      maxSize,
		reservations: make([]Reservation, 0, maxSize),
	}
}

func (s *Slot) Interval() TimeInterval { return s.interval }
func (s *Slot) Start() time.Time       { return s.interval.Start }
func (s *Slot) End() time.Time         { return s.interval.End }
func (s *Slot) MaxSize() int           { return s.maxSize }
func (s *Slot) Len() int               { return len(s.reservations) }

// Reservations возвращает копию записей в порядке бронирования
func (s *Slot) Reservations() []Reservation {
	out := make([]Reservation, len(s.reservations))
	copy(out, s.reservations)
	return out
}

// Reserve добавляет запись пользователя
func (s *Slot) Reserve(user User, service Service) error {
	if len(s.reservations) >= s.maxSize {
		return &MaxCapacityExceededError{MaxSize: s.maxSize}
	}
	if s.indexOf(user.ID) >= 0 {
		return &SlotAlreadyReservedError{UserID: user.ID}
	}
	s.reservations = append(s.reservations, Reservation{User: user, Service: service})
	return nil
}

// Cancel удаляет запись пользователя
func (s *Slot) Cancel(userID int64) error {
	idx := s.indexOf(userID)
	if idx < 0 {
		return &UserNotReservedError{UserID: userID}
	}
	s.reservations = append(s.reservations[:idx], s.reservations[idx+1:]...)
	return nil
}

// Restore возвращает в слот уже сохранённую запись без проверки вместимости.
// После уменьшения вместимости в слоте может остаться больше записей, чем мест
func (s *Slot) Restore(r Reservation) {
	s.reservations = append(s.reservations, r)
}

func (s *Slot) IsAvailable() bool {
	return len(s.reservations) < s.maxSize
}

func (s *Slot) IsEmpty() bool {
	return len(s.reservations) == 0
}

// MarkLoaded запоминает идентификаторы записей, прочитанных из хранилища
func (s *Slot) MarkLoaded() {
	s.loaded = make([]string, len(s.reservations))
	for i, r := range s.reservations {
		s.loaded[i] = r.ID
	}
}

// LoadedIDs идентификаторы записей на момент чтения в порядке бронирования
func (s *Slot) LoadedIDs() []string {
	out := make([]string, len(s.loaded))
	copy(out, s.loaded)
	return out
}

func (s *Slot) indexOf(userID int64) int {
	for i, r := range s.reservations {
		if r.User.ID == userID {
			return i
		}
	}
	return -1
}
