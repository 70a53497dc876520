package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSpreadsheetEncode(t *testing.T) {
	recs := sampleRecords(3)
	recs[2].Contact = ""
	table, err := NewTable(recs)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewSpreadsheet().Encode(&buf, table))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, table.Header, rows[0])
	assert.Equal(t, "Person 001", rows[2][0])
	assert.Equal(t, NotAvailable, rows[3][5])

	styleID, err := f.GetCellStyle(SheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}
