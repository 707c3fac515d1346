package state

import (
	"context"
	"sync"
)

// Manager хранит состояния пользователей в памяти процесса
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
}

var _ Store = (*Manager)(nil)

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
	}
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(_ context.Context, telegramID int64) (UserState, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.State, nil
	}
	return StateNone, nil
}

// SetState устанавливает состояние пользователя, данные диалога сохраняются
func (sm *Manager) SetState(_ context.Context, telegramID int64, state UserState) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, telegramID)
		return nil
	}

	sm.entry(telegramID).State = state
	return nil
}

// GetData получает временные данные пользователя
func (sm *Manager) GetData(_ context.Context, telegramID int64, key string) (string, bool, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		value, ok := userData.Data[key]
		return value, ok, nil
	}
	return "", false, nil
}

// SetData устанавливает временные данные пользователя
func (sm *Manager) SetData(_ context.Context, telegramID int64, key, value string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.entry(telegramID).Data[key] = value
	return nil
}

// GetAllData возвращает копию всех данных диалога
func (sm *Manager) GetAllData(_ context.Context, telegramID int64) (map[string]string, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	userData, exists := sm.states[telegramID]
	if !exists {
		return map[string]string{}, nil
	}

	dataCopy := make(map[string]string, len(userData.Data))
	for k, v := range userData.Data {
		dataCopy[k] = v
	}
	return dataCopy, nil
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(_ context.Context, telegramID int64) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
	return nil
}

// entry вызывается под блокировкой на запись
func (sm *Manager) entry(telegramID int64) *UserData {
	userData, exists := sm.states[telegramID]
	if !exists {
		userData = &UserData{
			State: StateNone,
			Data:  make(map[string]string),
		}
		sm.states[telegramID] = userData
	}
	return userData
}
