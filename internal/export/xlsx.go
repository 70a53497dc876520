package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the only worksheet in a spreadsheet export.
const SheetName = "Registrations"

// Spreadsheet writes an Office Open XML workbook.
type Spreadsheet struct{}

func NewSpreadsheet() *Spreadsheet { return &Spreadsheet{} }

func (*Spreadsheet) Format() Format      { return FormatSpreadsheet }
func (*Spreadsheet) Label() string       { return "Excel" }
func (*Spreadsheet) FileName() string    { return "registrations.xlsx" }
func (*Spreadsheet) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (s *Spreadsheet) Encode(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, 1, t.Header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, c := range t.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		// millimetres to character units, roughly
		if err := f.SetColWidth(SheetName, name, name, c.Width/2+5); err != nil {
			return fmt.Errorf("column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("row %d: %w", n, err)
	}
	return nil
}
