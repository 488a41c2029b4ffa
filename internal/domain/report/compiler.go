package report

import (
	"sort"
	"time"

	"github.com/fieldops/backend/internal/domain/record"
	"github.com/shopspring/decimal"
)

// SheetName is the worksheet every report is written to
const SheetName = "Report"

// Input is everything needed to compile one report
type Input struct {
	Bookings []record.Booking
	Type     Type
	Period   Period
	Range    DateRange
	Zone     string
	Unit     string
	Now      time.Time
	Location *time.Location
}

// Compile lays bookings out as a date-grouped table with per-date subtotals
// and a grand total, and tallies the summary in the same pass
func Compile(in Input) (*Document, Summary, error) {
	tpl, ok := templates[in.Type]
	if !ok {
		return nil, Summary{}, ErrInvalidType
	}
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	width := len(tpl.Columns)

	doc := &Document{
		Title:   Title(in.Type, in.Period, in.Zone, in.Unit, in.Range),
		Sheet:   SheetName,
		Columns: tpl.Columns,
	}
	doc.Rows = append(doc.Rows,
		Row{Kind: RowTitle, Cells: []Cell{Text(doc.Title)}, Span: width},
		Row{Kind: RowBlank},
		header(tpl.Columns),
	)

	dates, groups := groupByDate(in.Bookings, loc)

	var sum tally
	grand := decimal.Zero
	serial := 1
	for _, date := range dates {
		subtotal := decimal.Zero
		for _, b := range groups[date] {
			doc.Rows = append(doc.Rows, tpl.row(b, rowContext{serial: serial, date: date, now: in.Now}))
			amount := decimal.NewFromFloat(b.Price)
			subtotal = subtotal.Add(amount)
			sum.add(amount, b.Paid)
			serial++
		}
		grand = grand.Add(subtotal)
		doc.Rows = append(doc.Rows, totalRow(RowSubtotal, date+" Total", subtotal, width))
	}
	doc.Rows = append(doc.Rows, totalRow(RowGrandTotal, "GRAND TOTAL", grand, width))

	return doc, sum.summary(), nil
}

func header(cols []Column) Row {
	cells := make([]Cell, len(cols))
	for i, c := range cols {
		cells[i] = Text(c.Header)
	}
	return Row{Kind: RowHeader, Cells: cells}
}

func totalRow(kind RowKind, label string, amount decimal.Decimal, width int) Row {
	cells := make([]Cell, width)
	cells[0] = Text(label)
	cells[width-1] = Currency(amount.InexactFloat64())
	return Row{Kind: kind, Cells: cells, Span: width - 1}
}

// groupByDate buckets bookings by local calendar date, dates ascending and
// bookings keeping their input order within a date
func groupByDate(bookings []record.Booking, loc *time.Location) ([]string, map[string][]*record.Booking) {
	groups := make(map[string][]*record.Booking)
	for i := range bookings {
		b := &bookings[i]
		key := b.CreatedAt.In(loc).Format(dateLayout)
		groups[key] = append(groups[key], b)
	}
	dates := make([]string, 0, len(groups))
	for d := range groups {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, groups
}
