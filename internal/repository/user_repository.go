package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/umdbot/migration_bot/internal/model"
	"github.com/umdbot/migration_bot/internal/repository/base"
)

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(pool)}
}

// User получает пользователя по Telegram ID
func (r *UserRepository) User(ctx context.Context, id int64) (model.User, error) {
	query, args, err := base.Psql().
		Select("id", "username", "full_name_lat", "full_name_cyr", "citizenship", "arrival_date").
		From("users").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("build get user query: %w", err)
	}

	var (
		user        model.User
		lat, cyr    string
		citizenship string
		arrival     time.Time
	)
	err = r.QueryRow(ctx, query, args...).Scan(&user.ID, &user.Username, &lat, &cyr, &citizenship, &arrival)
	if err != nil {
		if base.IsNotFound(err) {
			return model.User{}, &model.UserNotFoundError{UserID: id}
		}
		return model.User{}, fmt.Errorf("get user by id: %w", err)
	}

	user.FullNameLat = model.LatinName(lat)
	user.FullNameCyr = model.CyrillicName(cyr)
	user.Citizenship = model.Citizenship(citizenship)
	user.ArrivalDate = arrival

	return user, nil
}

// SaveUser создаёт или перезаписывает пользователя
func (r *UserRepository) SaveUser(ctx context.Context, user model.User) error {
	query, args, err := base.Psql().
		Insert("users").
		Columns("id", "username", "full_name_lat", "full_name_cyr", "citizenship", "arrival_date").
		Values(user.ID, user.Username, user.FullNameLat.String(), user.FullNameCyr.String(), user.Citizenship.String(), user.ArrivalDate).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			full_name_lat = EXCLUDED.full_name_lat,
			full_name_cyr = EXCLUDED.full_name_cyr,
			citizenship = EXCLUDED.citizenship,
			arrival_date = EXCLUDED.arrival_date,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save user query: %w", err)
	}

	if _, err := r.ExecAffected(ctx, query, args...); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
