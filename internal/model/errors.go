package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidValue    = errors.New("invalid value")
	ErrInvalidInterval = errors.New("invalid interval")

	ErrMaxCapacityExceeded = errors.New("max capacity exceeded")
	ErrSlotAlreadyReserved = errors.New("slot already reserved")
	ErrUserNotReserved     = errors.New("user not reserved")
	ErrUserNotFound        = errors.New("user not found")

	// ErrSlotNotFound слота нет среди доступных на момент запроса
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotModified слот изменился в хранилище между чтением и записью
	ErrSlotModified = errors.New("slot modified concurrently")
)

// MaxCapacityExceededError в слоте заняты все места
type MaxCapacityExceededError struct {
	MaxSize int
}

func (e *MaxCapacityExceededError) Error() string {
	return fmt.Sprintf("%s: max size %d", ErrMaxCapacityExceeded, e.MaxSize)
}

func (e *MaxCapacityExceededError) Is(target error) bool {
	return target == ErrMaxCapacityExceeded
}

// SlotAlreadyReservedError пользователь уже записан в этот слот
type SlotAlreadyReservedError struct {
	UserID int64
}

func (e *SlotAlreadyReservedError) Error() string {
	return fmt.Sprintf("%s: user %d", ErrSlotAlreadyReserved, e.UserID)
}

func (e *SlotAlreadyReservedError) Is(target error) bool {
	return target == ErrSlotAlreadyReserved
}

// UserNotReservedError у пользователя нет записи в слоте
type UserNotReservedError struct {
	UserID int64
}

func (e *UserNotReservedError) Error() string {
	return fmt.Sprintf("%s: user %d", ErrUserNotReserved, e.UserID)
}

func (e *UserNotReservedError) Is(target error) bool {
	return target == ErrUserNotReserved
}

// UserNotFoundError пользователь не зарегистрирован
type UserNotFoundError struct {
	UserID int64
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("%s: user %d", ErrUserNotFound, e.UserID)
}

func (e *UserNotFoundError) Is(target error) bool {
	return target == ErrUserNotFound
}
