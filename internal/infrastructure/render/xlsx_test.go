package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/fieldops/backend/internal/domain/record"
	"github.com/fieldops/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func unpaidJuly(t *testing.T) *report.Document {
	t.Helper()
	loc := time.FixedZone("WAT", 3600)
	mk := func(day int, price float64) record.Booking {
		return record.Booking{
			Base:    record.Base{ID: uuid.New(), Zone: "4", CreatedAt: time.Date(2024, 7, day, 10, 0, 0, 0, loc)},
			Name:    "Ada",
			Price:   price,
			BillRef: "BR-1",
		}
	}
	doc, _, err := report.Compile(report.Input{
		Bookings: []record.Booking{mk(2, 5000), mk(2, 7000), mk(9, 3000)},
		Type:     report.TypeUnpaid,
		Period:   report.PeriodMonthly,
		Range: report.DateRange{
			Start: time.Date(2024, 7, 1, 0, 0, 0, 0, loc),
			End:   time.Date(2024, 7, 31, 23, 59, 59, 0, loc),
		},
		Zone:     "4",
		Now:      time.Date(2024, 8, 1, 0, 0, 0, 0, loc),
		Location: loc,
	})
	require.NoError(t, err)
	return doc
}

func TestXLSXRenderer_Render(t *testing.T) {
	doc := unpaidJuly(t)

	data, err := NewXLSXRenderer().Render(doc)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	assert.Equal(t, report.SheetName, sheet)

	title, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, doc.Title, title)

	header, err := f.GetCellValue(sheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "S/NO", header)

	width, err := f.GetColWidth(sheet, "F")
	require.NoError(t, err)
	assert.Equal(t, doc.Columns[5].Width, width)

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	// title, blank, header, 3 data rows, 2 subtotals, grand total
	require.Len(t, rows, 9)
	last := rows[len(rows)-1]
	assert.Equal(t, "GRAND TOTAL", last[0])
	assert.Equal(t, "15000", last[len(doc.Columns)-1])

	merges, err := f.GetMergeCells(sheet)
	require.NoError(t, err)
	// title, two subtotals and the grand total
	assert.Len(t, merges, 4)
}

func TestXLSXRenderer_EmptyDocument(t *testing.T) {
	doc := &report.Document{
		Columns: []report.Column{{Header: "S/NO", Width: 8}},
		Rows:    []report.Row{{Kind: report.RowHeader, Cells: []report.Cell{report.Text("S/NO")}}},
	}
	data, err := NewXLSXRenderer().Render(doc)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, report.SheetName, f.GetSheetName(0))
}
