package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/umdbot/migration_bot/internal/model"
)

func TestMetrics_ObserveOperation(t *testing.T) {
	m := New("test", prometheus.NewRegistry())

	m.ObserveOperation("reserve_slot", nil, time.Millisecond)
	m.ObserveOperation("reserve_slot", model.ErrSlotNotFound, time.Millisecond)
	m.ObserveOperation("reserve_slot", fmt.Errorf("save slot: %w", model.ErrSlotModified), time.Millisecond)
	m.ObserveOperation("reserve_slot", errors.New("connection refused"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("reserve_slot", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("reserve_slot", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("reserve_slot", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("reserve_slot", "error")))
}

func TestMetrics_Reservations(t *testing.T) {
	m := New("test", prometheus.NewRegistry())

	m.ReservationCreated(model.ServiceVisa)
	m.ReservationCreated(model.ServiceVisa)
	m.ReservationCanceled()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reservations.WithLabelValues("visa")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cancels))
}

func TestResult_TypedErrors(t *testing.T) {
	assert.Equal(t, "rejected", result(&model.MaxCapacityExceededError{MaxSize: 3}))
	assert.Equal(t, "rejected", result(fmt.Errorf("get user: %w", &model.UserNotFoundError{UserID: 1})))
}
