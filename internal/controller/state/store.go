package state

import "context"

// Store хранилище состояний диалогов
type Store interface {
	GetState(ctx context.Context, telegramID int64) (UserState, error)
	SetState(ctx context.Context, telegramID int64, state UserState) error
	GetData(ctx context.Context, telegramID int64, key string) (string, bool, error)
	SetData(ctx context.Context, telegramID int64, key, value string) error
	GetAllData(ctx context.Context, telegramID int64) (map[string]string, error)
	ClearState(ctx context.Context, telegramID int64) error
}
