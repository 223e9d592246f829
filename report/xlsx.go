package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"mealroute/models"
)

// SheetName is the only sheet of the XLSX export.
const SheetName = "Tasks"

// WriteXLSX writes a workbook with a single Tasks sheet: header plus Rows.
func WriteXLSX(w io.Writer, tasks models.DailyTasks) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range Rows(tasks) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := r.values()
		if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(SheetName, "B", "E", 22); err != nil {
		return err
	}
	return f.Write(w)
}
