package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ReservationPurger удаляет записи на слоты, закончившиеся раньше заданного момента
type ReservationPurger interface {
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	purger    ReservationPurger
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	logger    *zap.Logger
	stopChan  chan struct{}
}

// NewScheduler создаёт новый планировщик.
// При retentionDays <= 0 очистка старых записей отключена
func NewScheduler(purger ReservationPurger, retentionDays int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		purger:    purger,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		interval:  24 * time.Hour,
		now:       time.Now,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	if s.retention <= 0 {
		s.logger.Info("Reservation retention disabled, scheduler not started")
		return
	}

	s.logger.Info("Starting background scheduler", zap.Duration("retention", s.retention))
	go s.runRetentionTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
}

func (s *Scheduler) runRetentionTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.purgeOld(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.purgeOld(ctx)
		case <-s.stopChan:
			s.logger.Info("Retention task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Retention task cancelled")
			return
		}
	}
}

// purgeOld удаляет записи старше срока хранения
func (s *Scheduler) purgeOld(ctx context.Context) {
	before := s.now().Add(-s.retention)

	deleted, err := s.purger.DeleteBefore(ctx, before)
	if err != nil {
		s.logger.Error("Failed to purge old reservations", zap.Error(err))
		return
	}

	s.logger.Info("Old reservations purged",
		zap.Int64("deleted", deleted),
		zap.Time("before", before),
	)
}
