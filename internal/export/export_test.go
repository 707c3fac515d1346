package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/umdbot/migration_bot/internal/model"
	"github.com/umdbot/migration_bot/internal/service"
)

func sampleRows() []service.ReservationRow {
	start := time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)
	return []service.ReservationRow{
		{
			SlotStart:   start,
			SlotEnd:     start.Add(20 * time.Minute),
			Service:     model.ServiceVisa,
			UserID:      1,
			Username:    "ivanov",
			FullNameLat: "Ivanov Ivan",
			FullNameCyr: "Иванов Иван",
			Citizenship: "Таджикистан",
			ArrivalDate: time.Date(2024, 8, 25, 0, 0, 0, 0, time.UTC),
		},
		{
			SlotStart:   start,
			SlotEnd:     start.Add(20 * time.Minute),
			Service:     model.ServiceAll,
			UserID:      2,
			FullNameLat: "Petrov Petr",
			FullNameCyr: "Петров Пётр",
			Citizenship: "Монголия",
			ArrivalDate: time.Date(2024, 8, 30, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "BOM в начале файла")

	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Len(t, records[0], 9)
	assert.Equal(t, []string{
		"1", "10:00", "10:20", model.ServiceVisa.Label(), "t.me/ivanov",
		"Ivanov Ivan", "Иванов Иван", "Таджикистан", "25.08.2024",
	}, records[1])
	assert.Equal(t, "2", records[2][0])
	assert.Empty(t, records[2][4], "без username ссылки нет")
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRows()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "t.me/ivanov", rows[1][4])
	assert.Equal(t, "Петров Пётр", rows[2][6])
}

func TestFileName(t *testing.T) {
	date := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "slots_2024-09-02.csv", FileName(date, "csv"))
	assert.Equal(t, "slots_2024-09-02.xlsx", FileName(date, "xlsx"))
}
