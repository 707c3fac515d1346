package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/umdbot/migration_bot/internal/model"
	"github.com/umdbot/migration_bot/internal/repository/base"
)

// ReservationRepository хранит записи в слотах, слот определяется временем начала
type ReservationRepository struct {
	*base.Repository
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{Repository: base.NewRepository(pool)}
}

// AvailableSlots заполняет шаблоны записями и оставляет слоты со свободными местами
func (r *ReservationRepository) AvailableSlots(ctx context.Context, templates []*model.Slot) ([]*model.Slot, error) {
	merged, err := r.merge(ctx, templates)
	if err != nil {
		return nil, err
	}

	available := make([]*model.Slot, 0, len(merged))
	for _, slot := range merged {
		if slot.IsAvailable() {
			available = append(available, slot)
		}
	}
	return available, nil
}

// HasAvailableSlots проверяет есть ли среди шаблонов слот со свободным местом
func (r *ReservationRepository) HasAvailableSlots(ctx context.Context, templates []*model.Slot) (bool, error) {
	if len(templates) == 0 {
		return false, nil
	}

	query, args, err := base.Psql().
		Select("slot_start", "COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"slot_start": slotStarts(templates)}).
		GroupBy("slot_start").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build count query: %w", err)
	}

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("count reservations: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int, len(templates))
	for rows.Next() {
		var (
			start time.Time
			count int
		)
		if err := rows.Scan(&start, &count); err != nil {
			return false, fmt.Errorf("scan reservation count: %w", err)
		}
		counts[start.Unix()] = count
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterate reservation counts: %w", err)
	}

	for _, t := range templates {
		if counts[t.Start().Unix()] < t.MaxSize() {
			return true, nil
		}
	}
	return false, nil
}

// ReservedSlots возвращает только слоты, в которых есть записи
func (r *ReservationRepository) ReservedSlots(ctx context.Context, templates []*model.Slot) ([]*model.Slot, error) {
	merged, err := r.merge(ctx, templates)
	if err != nil {
		return nil, err
	}

	reserved := make([]*model.Slot, 0)
	for _, slot := range merged {
		if !slot.IsEmpty() {
			reserved = append(reserved, slot)
		}
	}
	return reserved, nil
}

// ReservedSlot заполняет один шаблон текущими записями
func (r *ReservationRepository) ReservedSlot(ctx context.Context, template *model.Slot) (*model.Slot, error) {
	merged, err := r.merge(ctx, []*model.Slot{template})
	if err != nil {
		return nil, err
	}
	return merged[0], nil
}

// SaveSlot заменяет записи слота целиком.
// Запись проходит, только если набор записей в базе не изменился с момента чтения слота,
// иначе возвращается model.ErrSlotModified. Сохранённые записи сохраняют свой id,
// новые получают новый, поэтому любая отмена или запись меняет набор id
func (r *ReservationRepository) SaveSlot(ctx context.Context, slot *model.Slot) error {
	err := r.InTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		// Сериализуем запись одного и того же слота
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, slot.Start().Unix()); err != nil {
			return fmt.Errorf("lock slot: %w", err)
		}

		rows, err := tx.Query(ctx,
			`SELECT id::text FROM reservations WHERE slot_start = $1 ORDER BY position`, slot.Start())
		if err != nil {
			return fmt.Errorf("get slot reservation ids: %w", err)
		}
		current, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("scan slot reservation ids: %w", err)
		}
		if !slices.Equal(current, slot.LoadedIDs()) {
			return model.ErrSlotModified
		}

		if _, err := tx.Exec(ctx, `DELETE FROM reservations WHERE slot_start = $1`, slot.Start()); err != nil {
			return fmt.Errorf("delete slot reservations: %w", err)
		}

		if slot.IsEmpty() {
			return nil
		}

		insert := base.Psql().
			Insert("reservations").
			Columns("id", "slot_start", "slot_end", "position", "user_id", "service")
		for i, res := range slot.Reservations() {
			id := res.ID
			if id == "" {
				id = uuid.NewString()
			}
			insert = insert.Values(id, slot.Start(), slot.End(), i, res.User.ID, string(res.Service))
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert reservations query: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert reservations: %w", err)
		}
		return nil
	})

	if base.HasCode(err, base.CodeSerializationFailure, base.CodeDeadlockDetected, base.CodeUniqueViolation) {
		return fmt.Errorf("%w: %v", model.ErrSlotModified, err)
	}
	return err
}

// merge дописывает в шаблоны их записи из базы в порядке бронирования
func (r *ReservationRepository) merge(ctx context.Context, templates []*model.Slot) ([]*model.Slot, error) {
	if len(templates) == 0 {
		return templates, nil
	}

	query, args, err := base.Psql().
		Select(
			"r.id::text",
			"r.slot_start",
			"r.service",
			"u.id",
			"u.username",
			"u.full_name_lat",
			"u.full_name_cyr",
			"u.citizenship",
			"u.arrival_date",
		).
		From("reservations AS r").
		Join("users AS u ON u.id = r.user_id").
		Where(squirrel.Eq{"r.slot_start": slotStarts(templates)}).
		OrderBy("r.slot_start", "r.position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build reservations query: %w", err)
	}

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get reservations: %w", err)
	}
	defer rows.Close()

	byStart := make(map[int64]*model.Slot, len(templates))
	for _, t := range templates {
		byStart[t.Start().Unix()] = t
	}

	for rows.Next() {
		var (
			id          string
			start       time.Time
			service     string
			user        model.User
			lat, cyr    string
			citizenship string
		)
		if err := rows.Scan(&id, &start, &service, &user.ID, &user.Username, &lat, &cyr, &citizenship, &user.ArrivalDate); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		user.FullNameLat = model.LatinName(lat)
		user.FullNameCyr = model.CyrillicName(cyr)
		user.Citizenship = model.Citizenship(citizenship)

		slot, ok := byStart[start.Unix()]
		if !ok {
			continue
		}
		slot.Restore(model.Reservation{ID: id, User: user, Service: model.Service(service)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reservations: %w", err)
	}

	for _, t := range templates {
		t.MarkLoaded()
	}
	return templates, nil
}

func slotStarts(templates []*model.Slot) []time.Time {
	starts := make([]time.Time, 0, len(templates))
	for _, t := range templates {
		starts = append(starts, t.Start())
	}
	return starts
}

// DeleteBefore удаляет записи на слоты, закончившиеся до before
func (r *ReservationRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := base.Psql().
		Delete("reservations").
		Where(squirrel.Lt{"slot_end": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete reservations query: %w", err)
	}

	deleted, err := r.ExecAffected(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete old reservations: %w", err)
	}
	return deleted, nil
}
