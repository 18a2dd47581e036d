package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ledgerline/ledgerline/internal/normalize"
)

func TestParseCSV(t *testing.T) {
	input := "Date,Description,Amount\n2025-03-01,Coffee,4.50\n2025-03-02,Salary,100\n"

	table, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Description", "Amount"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, normalize.Row{"Date": "2025-03-01", "Description": "Coffee", "Amount": "4.50"}, table.Rows[0])
}

func TestParseCSVShortRows(t *testing.T) {
	input := "Date,Description,Amount\n2025-03-01,Coffee\n"

	table, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "", table.Rows[0]["Amount"], "missing cells pad with empty strings")
}

func TestParseCSVEmpty(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"Date", "Amount"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]string{"2025-03-01", "12.30"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]string{"2025-03-02", "-4"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := ParseXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Amount"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "12.30", table.Rows[0]["Amount"])
	assert.Equal(t, "-4", table.Rows[1]["Amount"])
}

func TestParseDispatch(t *testing.T) {
	table, err := Parse("statement.csv", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)

	_, err = Parse("statement.pdf", strings.NewReader(""))
	assert.Error(t, err)

	_, err = Parse("statement", strings.NewReader(""))
	assert.Error(t, err)
}
