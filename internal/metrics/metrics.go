package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/umdbot/migration_bot/internal/model"
)

// Metrics счётчики и гистограммы сценариев записи
type Metrics struct {
	operations   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	reservations *prometheus.CounterVec
	cancels      prometheus.Counter
}

// New создаёт метрики и регистрирует их в reg
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Scheduling operations by result.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Scheduling operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "Reservations created by service.",
		}, []string{"service"}),
		cancels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_canceled_total",
			Help:      "Reservations canceled.",
		}),
	}

	reg.MustRegister(m.operations, m.duration, m.reservations, m.cancels)
	return m
}

func (m *Metrics) ObserveOperation(operation string, err error, elapsed time.Duration) {
	m.operations.WithLabelValues(operation, result(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) ReservationCreated(service model.Service) {
	m.reservations.WithLabelValues(string(service)).Inc()
}

func (m *Metrics) ReservationCanceled() {
	m.cancels.Inc()
}

// result метка исхода операции: бизнес-отказы отделены от сбоев
func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrSlotNotFound),
		errors.Is(err, model.ErrMaxCapacityExceeded),
		errors.Is(err, model.ErrSlotAlreadyReserved),
		errors.Is(err, model.ErrUserNotReserved),
		errors.Is(err, model.ErrUserNotFound):
		return "rejected"
	case errors.Is(err, model.ErrSlotModified):
		return "conflict"
	default:
		return "error"
	}
}
