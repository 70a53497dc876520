// Package export renders a registration collection into downloadable
// artifacts. All formats share one column definition and the "N/A" fallback;
// each encoder only supplies its own serialisation.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirdesai22/registration-dashboard/internal/models"
)

// NotAvailable is written for any empty cell.
const NotAvailable = "N/A"

var (
	ErrNoRecords        = errors.New("no registrations data available to export")
	ErrExportInProgress = errors.New("an export is already in progress")
	ErrUnknownFormat    = errors.New("unknown export format")
)

// Format identifies an artifact encoding.
type Format string

const (
	FormatSpreadsheet Format = "xlsx"
	FormatPDF         Format = "pdf"
	FormatDocument    Format = "docx"
)

// ParseFormat accepts a file extension or a friendly alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xlsx", "excel", "spreadsheet":
		return FormatSpreadsheet, nil
	case "pdf":
		return FormatPDF, nil
	case "docx", "word", "document":
		return FormatDocument, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Column pairs a business field with its printed width in millimetres.
type Column struct {
	models.Field
	Width float64
}

var widths = map[string]float64{
	models.KeyName:    30,
	models.KeyEmail:   50,
	models.KeyCourse:  30,
	models.KeyBranch:  30,
	models.KeyCollege: 40,
	models.KeyContact: 30,
	models.KeyEvent:   40,
}

// Columns returns the fixed export columns in order.
func Columns() []Column {
	fields := models.BusinessFields()
	cols := make([]Column, len(fields))
	for i, f := range fields {
		cols[i] = Column{Field: f, Width: widths[f.Key]}
	}
	return cols
}

// Table is the format-neutral content of an export.
type Table struct {
	Columns []Column
	Header  []string
	Rows    [][]string
}

// NewTable lays records out in the given order. It fails with ErrNoRecords
// for an empty collection.
func NewTable(records []models.Registration) (Table, error) {
	if len(records) == 0 {
		return Table{}, ErrNoRecords
	}
	cols := Columns()
	t := Table{
		Columns: cols,
		Header:  make([]string, len(cols)),
		Rows:    make([][]string, len(records)),
	}
	for i, c := range cols {
		t.Header[i] = c.Label
	}
	for i, r := range records {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = cell(r.Text(c.Key))
		}
		t.Rows[i] = row
	}
	return t, nil
}

func cell(v string) string {
	if v == "" {
		return NotAvailable
	}
	return v
}

// Encoder serialises a Table into one file format.
type Encoder interface {
	Format() Format
	// Label is the human name used in error messages ("Excel", "PDF", "Word").
	Label() string
	FileName() string
	ContentType() string
	Encode(w io.Writer, t Table) error
}
