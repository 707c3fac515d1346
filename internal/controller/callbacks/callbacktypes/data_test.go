package callbacktypes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umdbot/migration_bot/internal/model"
)

var office = time.FixedZone("MSK", 3*60*60)

func TestServiceDayRoundTrip(t *testing.T) {
	day := time.Date(2024, 9, 2, 0, 0, 0, 0, office)

	data := DayData(model.ServiceRenewalOfRegistration, day)
	assert.Equal(t, "reserve_day:renewal_of_registration:2024-09-02", data)

	svc, parsed, err := ParseServiceDay(data, office)
	require.NoError(t, err)
	assert.Equal(t, model.ServiceRenewalOfRegistration, svc)
	assert.True(t, day.Equal(parsed))
}

func TestServiceTimeRoundTrip(t *testing.T) {
	start := time.Date(2024, 9, 2, 10, 20, 0, 0, office)

	data := ConfirmData(model.ServiceVisaAndInsurance, start)
	assert.LessOrEqual(t, len(data), 64, "лимит callback data в Telegram")

	svc, at, err := ParseServiceTime(data, ReserveConfirm, office)
	require.NoError(t, err)
	assert.Equal(t, model.ServiceVisaAndInsurance, svc)
	assert.True(t, start.Equal(at))
	assert.Equal(t, office, at.Location())
}

func TestParseCancel(t *testing.T) {
	start := time.Date(2024, 9, 2, 10, 20, 0, 0, office)

	at, err := ParseCancel(CancelData(start), office)
	require.NoError(t, err)
	assert.True(t, start.Equal(at))

	_, err = ParseCancel(CancelReservation+"soon", office)
	assert.ErrorIs(t, err, model.ErrInvalidValue)
}

func TestParseInvalid(t *testing.T) {
	_, _, err := ParseServiceDay(ReserveDay+"visa", office)
	assert.ErrorIs(t, err, model.ErrInvalidValue)

	_, _, err = ParseServiceDay(ReserveDay+"tourism:2024-09-02", office)
	assert.ErrorIs(t, err, model.ErrInvalidValue)

	_, _, err = ParseServiceDay(ReserveDay+"visa:02.09.2024", office)
	assert.ErrorIs(t, err, model.ErrInvalidValue)

	_, err = ParseService(ReserveService + "unknown")
	assert.ErrorIs(t, err, model.ErrInvalidValue)
}
