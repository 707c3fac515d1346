package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/umdbot/migration_bot/internal/service"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV пишет записи в CSV с BOM, чтобы Excel открывал кириллицу
func WriteCSV(w io.Writer, rows []service.ReservationRow) error {
	if _, err := w.Write(bom); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write(record(i, r)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
