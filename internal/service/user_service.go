package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/umdbot/migration_bot/internal/model"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo UserRepository
	clock    TimeProvider
	logger   *zap.Logger
}

func NewUserService(userRepo UserRepository, clock TimeProvider, logger *zap.Logger) *UserService {
	if clock == nil {
		clock = RealTimeProvider{}
	}
	return &UserService{
		userRepo: userRepo,
		clock:    clock,
		logger:   logger,
	}
}

// IsRegistered проверяет зарегистрирован ли пользователь
func (s *UserService) IsRegistered(ctx context.Context, id int64) (bool, error) {
	_, err := s.userRepo.User(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}
	return true, nil
}

// GetUser получает пользователя по Telegram ID
func (s *UserService) GetUser(ctx context.Context, id int64) (model.User, error) {
	return s.userRepo.User(ctx, id)
}

// Register проверяет анкету и сохраняет пользователя, перезаписывая прежнюю
func (s *UserService) Register(ctx context.Context, draft UserDraft) (model.User, error) {
	lat, err := model.NewLatinName(draft.FullNameLat)
	if err != nil {
		return model.User{}, err
	}
	cyr, err := model.NewCyrillicName(draft.FullNameCyr)
	if err != nil {
		return model.User{}, err
	}
	citizenship, err := model.ParseCitizenship(draft.Citizenship)
	if err != nil {
		return model.User{}, err
	}
	if err := s.validateArrivalDate(draft.ArrivalDate); err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:          draft.ID,
		Username:    draft.Username,
		FullNameLat: lat,
		FullNameCyr: cyr,
		Citizenship: citizenship,
		ArrivalDate: model.DateOf(draft.ArrivalDate),
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("save user: %w", err)
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("citizenship", user.Citizenship.String()),
	)

	return user, nil
}

// UpdateNameLat меняет ФИО латиницей
func (s *UserService) UpdateNameLat(ctx context.Context, id int64, value string) (model.User, error) {
	name, err := model.NewLatinName(value)
	if err != nil {
		return model.User{}, err
	}
	return s.update(ctx, id, "full_name_lat", func(u *model.User) { u.FullNameLat = name })
}

// UpdateNameCyr меняет ФИО кириллицей
func (s *UserService) UpdateNameCyr(ctx context.Context, id int64, value string) (model.User, error) {
	name, err := model.NewCyrillicName(value)
	if err != nil {
		return model.User{}, err
	}
	return s.update(ctx, id, "full_name_cyr", func(u *model.User) { u.FullNameCyr = name })
}

// UpdateCitizenship меняет гражданство
func (s *UserService) UpdateCitizenship(ctx context.Context, id int64, value string) (model.User, error) {
	citizenship, err := model.ParseCitizenship(value)
	if err != nil {
		return model.User{}, err
	}
	return s.update(ctx, id, "citizenship", func(u *model.User) { u.Citizenship = citizenship })
}

// UpdateArrivalDate меняет дату прибытия
func (s *UserService) UpdateArrivalDate(ctx context.Context, id int64, date time.Time) (model.User, error) {
	if err := s.validateArrivalDate(date); err != nil {
		return model.User{}, err
	}
	return s.update(ctx, id, "arrival_date", func(u *model.User) { u.ArrivalDate = model.DateOf(date) })
}

// UpdateUsername синхронизирует ник из Telegram
func (s *UserService) UpdateUsername(ctx context.Context, id int64, username string) error {
	user, err := s.userRepo.User(ctx, id)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user.Username == username {
		return nil
	}
	user.Username = username
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (s *UserService) update(ctx context.Context, id int64, field string, apply func(*model.User)) (model.User, error) {
	user, err := s.userRepo.User(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	apply(&user)

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("save user: %w", err)
	}

	s.logger.Info("User updated",
		zap.Int64("user_id", id),
		zap.String("field", field),
	)

	return user, nil
}

func (s *UserService) validateArrivalDate(date time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: empty arrival date", model.ErrInvalidValue)
	}
	today := model.DateOf(s.clock.Now())
	if civilDate(date, today.Location()).After(today) {
		return fmt.Errorf("%w: arrival date %s is in the future", model.ErrInvalidValue, date.Format("02.01.2006"))
	}
	return nil
}
