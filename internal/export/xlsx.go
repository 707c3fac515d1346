package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/umdbot/migration_bot/internal/service"
)

const sheetName = "Записи"

// WriteXLSX пишет записи в книгу Excel с одним листом
func WriteXLSX(w io.Writer, rows []service.ReservationRow) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := setRow(f, 1, Header); err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(Header))
	if err := f.SetCellStyle(sheetName, "A1", last+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range rows {
		if err := setRow(f, i+2, record(i, r)); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 5)
	_ = f.SetColWidth(sheetName, "B", "C", 9)
	_ = f.SetColWidth(sheetName, "D", last, 24)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}
