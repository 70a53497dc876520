package export

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirdesai22/registration-dashboard/internal/models"
)

func sampleRecords(n int) []models.Registration {
	out := make([]models.Registration, n)
	for i := range out {
		out[i] = models.Registration{
			ID:      uuid.New(),
			Name:    fmt.Sprintf("Person %03d", i),
			Email:   fmt.Sprintf("person%03d@example.com", i),
			Course:  "B.Tech",
			Branch:  "CSE",
			College: "PESU",
			Contact: "9876543210",
			Event:   "Hackathon",
		}
	}
	return out
}

func TestColumns(t *testing.T) {
	cols := Columns()
	require.Len(t, cols, 7)

	labels := make([]string, len(cols))
	var total float64
	for i, c := range cols {
		labels[i] = c.Label
		total += c.Width
	}
	assert.Equal(t, []string{"Name", "Email", "Course", "Branch", "College", "Contact", "Event"}, labels)
	assert.Equal(t, 50.0, cols[1].Width)
	assert.Equal(t, 250.0, total)
}

func TestNewTableEmpty(t *testing.T) {
	_, err := NewTable(nil)
	assert.ErrorIs(t, err, ErrNoRecords)
	assert.EqualError(t, err, "no registrations data available to export")
}

func TestNewTableKeepsOrderAndFillsBlanks(t *testing.T) {
	recs := sampleRecords(2)
	recs[1].Branch = ""

	table, err := NewTable(recs)
	require.NoError(t, err)

	assert.Equal(t, "Name", table.Header[0])
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Person 000", table.Rows[0][0])
	assert.Equal(t, "Person 001", table.Rows[1][0])
	assert.Equal(t, NotAvailable, table.Rows[1][3])
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"xlsx": FormatSpreadsheet, "Excel": FormatSpreadsheet,
		"pdf": FormatPDF,
		"docx": FormatDocument, "word": FormatDocument,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
