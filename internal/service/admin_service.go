package service

import (
	"context"

	"go.uber.org/zap"
)

// AdminService проверяет права администратора по списку Telegram ID
type AdminService struct {
	admins map[int64]struct{}
	logger *zap.Logger
}

func NewAdminService(adminIDs []int64, logger *zap.Logger) *AdminService {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &AdminService{admins: admins, logger: logger}
}

// IsAdmin сообщает, является ли пользователь администратором
func (s *AdminService) IsAdmin(_ context.Context, userID int64) (bool, error) {
	_, ok := s.admins[userID]
	if !ok {
		s.logger.Debug("Admin check failed", zap.Int64("user_id", userID))
	}
	return ok, nil
}
