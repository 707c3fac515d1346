package callbacktypes

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/umdbot/migration_bot/internal/model"
)

// Префиксы callback data
const (
	Noop = "noop"

	AgreePersonalData = "pd_agree"
	ChooseCitizenship = "citizenship:" // citizenship:<index>|other
	OtherCitizenship  = "other"

	UpdateField = "update_field:" // update_field:lat|cyr|citizenship|arrival

	ReserveStart   = "reserve_start"
	ReserveService = "reserve_service:" // reserve_service:<service>
	ReserveDay     = "reserve_day:"     // reserve_day:<service>:<YYYY-MM-DD>
	ReserveSlot    = "reserve_slot:"    // reserve_slot:<service>:<unix>
	ReserveConfirm = "reserve_confirm:" // reserve_confirm:<service>:<unix>

	CancelReservation = "cancel_reservation:" // cancel_reservation:<unix>
)

// Поля профиля для update_field
const (
	FieldNameLat     = "lat"
	FieldNameCyr     = "cyr"
	FieldCitizenship = "citizenship"
	FieldArrival     = "arrival"
)

const dayLayout = "2006-01-02"

func ServiceData(svc model.Service) string {
	return ReserveService + string(svc)
}

func DayData(svc model.Service, day time.Time) string {
	return ReserveDay + string(svc) + ":" + day.Format(dayLayout)
}

func SlotData(svc model.Service, start time.Time) string {
	return ReserveSlot + string(svc) + ":" + strconv.FormatInt(start.Unix(), 10)
}

func ConfirmData(svc model.Service, start time.Time) string {
	return ReserveConfirm + string(svc) + ":" + strconv.FormatInt(start.Unix(), 10)
}

func CancelData(start time.Time) string {
	return CancelReservation + strconv.FormatInt(start.Unix(), 10)
}

func CitizenshipData(index int) string {
	return ChooseCitizenship + strconv.Itoa(index)
}

// ParseService разбирает reserve_service:<service>
func ParseService(data string) (model.Service, error) {
	return model.ParseService(strings.TrimPrefix(data, ReserveService))
}

// ParseServiceDay разбирает reserve_day:<service>:<date>, дата в часовом поясе loc
func ParseServiceDay(data string, loc *time.Location) (model.Service, time.Time, error) {
	svc, arg, err := splitServiceArg(data, ReserveDay)
	if err != nil {
		return "", time.Time{}, err
	}
	day, err := time.ParseInLocation(dayLayout, arg, loc)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: day %q", model.ErrInvalidValue, arg)
	}
	return svc, day, nil
}

// ParseServiceTime разбирает <prefix><service>:<unix>
func ParseServiceTime(data, prefix string, loc *time.Location) (model.Service, time.Time, error) {
	svc, arg, err := splitServiceArg(data, prefix)
	if err != nil {
		return "", time.Time{}, err
	}
	at, err := parseUnix(arg, loc)
	if err != nil {
		return "", time.Time{}, err
	}
	return svc, at, nil
}

// ParseCancel разбирает cancel_reservation:<unix>
func ParseCancel(data string, loc *time.Location) (time.Time, error) {
	return parseUnix(strings.TrimPrefix(data, CancelReservation), loc)
}

func splitServiceArg(data, prefix string) (model.Service, string, error) {
	parts := strings.SplitN(strings.TrimPrefix(data, prefix), ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: callback %q", model.ErrInvalidValue, data)
	}
	svc, err := model.ParseService(parts[0])
	if err != nil {
		return "", "", err
	}
	return svc, parts[1], nil
}

func parseUnix(raw string, loc *time.Location) (time.Time, error) {
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", model.ErrInvalidValue, raw)
	}
	return time.Unix(sec, 0).In(loc), nil
}
