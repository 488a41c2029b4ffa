// Package render writes compiled report documents as spreadsheets.
package render

import (
	"fmt"

	"github.com/fieldops/backend/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	green     = "006400"
	lightGrey = "E0E0E0"
	white     = "FFFFFF"

	moneyFormat = "#,##0.00"
)

// XLSXRenderer renders a report.Document into an .xlsx workbook
type XLSXRenderer struct{}

// NewXLSXRenderer creates a new XLSXRenderer
func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

// styles are the workbook style ids per row kind
type styles struct {
	title      int
	header     int
	data       int
	money      int
	subtotal   int
	subMoney   int
	grandTotal int
	grandMoney int
}

func newStyles(f *excelize.File) (*styles, error) {
	format := moneyFormat
	border := []excelize.Border{
		{Type: "left", Color: "BFBFBF", Style: 1},
		{Type: "top", Color: "BFBFBF", Style: 1},
		{Type: "right", Color: "BFBFBF", Style: 1},
		{Type: "bottom", Color: "BFBFBF", Style: 1},
	}
	solid := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}

	defs := []*excelize.Style{
		{
			Font:      &excelize.Font{Bold: true, Size: 14, Color: green},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		},
		{
			Font:      &excelize.Font{Bold: true, Color: white},
			Fill:      solid(green),
			Border:    border,
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		},
		{Border: border},
		{Border: border, CustomNumFmt: &format},
		{Font: &excelize.Font{Bold: true}, Fill: solid(lightGrey), Border: border},
		{Font: &excelize.Font{Bold: true}, Fill: solid(lightGrey), Border: border, CustomNumFmt: &format},
		{Font: &excelize.Font{Bold: true, Color: white}, Fill: solid(green), Border: border},
		{Font: &excelize.Font{Bold: true, Color: white}, Fill: solid(green), Border: border, CustomNumFmt: &format},
	}

	s := &styles{}
	targets := []*int{&s.title, &s.header, &s.data, &s.money, &s.subtotal, &s.subMoney, &s.grandTotal, &s.grandMoney}
	for i, d := range defs {
		id, err := f.NewStyle(d)
		if err != nil {
			return nil, fmt.Errorf("failed to create style: %w", err)
		}
		*targets[i] = id
	}
	return s, nil
}

// cellStyles picks the plain and money style for a row kind
func (s *styles) cellStyles(kind report.RowKind) (plain, money int) {
	switch kind {
	case report.RowTitle:
		return s.title, s.title
	case report.RowHeader:
		return s.header, s.header
	case report.RowSubtotal:
		return s.subtotal, s.subMoney
	case report.RowGrandTotal:
		return s.grandTotal, s.grandMoney
	default:
		return s.data, s.money
	}
}

// Render writes doc to a new workbook and returns its bytes
func (r *XLSXRenderer) Render(doc *report.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := doc.Sheet
	if sheet == "" {
		sheet = report.SheetName
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	for i, col := range doc.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range doc.Rows {
		if err := r.writeRow(f, sheet, i+1, row, len(doc.Columns), st); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *XLSXRenderer) writeRow(f *excelize.File, sheet string, rowNum int, row report.Row, width int, st *styles) error {
	if row.Kind == report.RowBlank {
		return nil
	}
	plain, money := st.cellStyles(row.Kind)

	for c := 0; c < width; c++ {
		cell, err := excelize.CoordinatesToCellName(c+1, rowNum)
		if err != nil {
			return err
		}
		style := plain
		if c < len(row.Cells) {
			v := row.Cells[c]
			switch v.Kind {
			case report.CellNumber:
				err = f.SetCellValue(sheet, cell, v.Number)
			case report.CellCurrency:
				err = f.SetCellValue(sheet, cell, v.Number)
				style = money
			default:
				if v.Text != "" {
					err = f.SetCellValue(sheet, cell, v.Text)
				}
			}
			if err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style cell %s: %w", cell, err)
		}
	}

	if row.Span > 1 {
		from, _ := excelize.CoordinatesToCellName(1, rowNum)
		to, err := excelize.CoordinatesToCellName(row.Span, rowNum)
		if err != nil {
			return err
		}
		if err := f.MergeCell(sheet, from, to); err != nil {
			return fmt.Errorf("failed to merge %s:%s: %w", from, to, err)
		}
	}
	if row.Kind == report.RowTitle {
		if err := f.SetRowHeight(sheet, rowNum, 24); err != nil {
			return err
		}
	}
	return nil
}
