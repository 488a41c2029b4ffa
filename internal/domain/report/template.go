package report

import (
	"math"
	"time"

	"github.com/fieldops/backend/internal/domain/record"
)

// Column keys shared by the templates
const (
	colSerial        = "sno"
	colDate          = "date"
	colTicket        = "ticketNo"
	colName          = "name"
	colPhone         = "phoneNo"
	colOffence       = "offence"
	colVehicle       = "vehicleType"
	colPlate         = "plate"
	colPaymentMode   = "paymentMode"
	colPaymentStatus = "paymentStatus"
	colTeller        = "tellerNo"
	colDaysOverdue   = "daysOverdue"
	colAmount        = "amount"
)

const notAvailable = "N/A"

// rowContext carries per-row values the transform cannot derive from the booking
type rowContext struct {
	serial int
	date   string
	now    time.Time
}

// Template is the column schema and row transform of a report type
type Template struct {
	Title   string
	Columns []Column
	extra   func(b *record.Booking, ctx rowContext) map[string]Cell
}

var paidColumns = []Column{
	{Header: "S/NO", Key: colSerial, Width: 8},
	{Header: "DATE", Key: colDate, Width: 12},
	{Header: "TICKET NO.", Key: colTicket, Width: 18},
	{Header: "OFFENDER'S NAME", Key: colName, Width: 25},
	{Header: "OFFENCE", Key: colOffence, Width: 45},
	{Header: "VEHICLE TYPE", Key: colVehicle, Width: 15},
	{Header: "NO. PLATE", Key: colPlate, Width: 12},
	{Header: "MODE OF PAYMENT", Key: colPaymentMode, Width: 15},
	{Header: "TELLER NO.", Key: colTeller, Width: 18},
	{Header: "AMOUNT", Key: colAmount, Width: 15},
}

var templates = map[Type]Template{
	TypeSnapshot: {
		Title:   "REVENUE REPORT",
		Columns: paidColumns,
		extra:   paymentModeCells,
	},
	TypeBookedPaid: {
		Title:   "BOOKED & PAID REPORT",
		Columns: paidColumns,
		extra:   paymentModeCells,
	},
	TypeFinesAmounts: {
		Title: "FINES & AMOUNTS REPORT",
		Columns: []Column{
			{Header: "S/NO", Key: colSerial, Width: 8},
			{Header: "DATE", Key: colDate, Width: 12},
			{Header: "TICKET NO.", Key: colTicket, Width: 18},
			{Header: "OFFENDER'S NAME", Key: colName, Width: 25},
			{Header: "OFFENCE", Key: colOffence, Width: 45},
			{Header: "VEHICLE TYPE", Key: colVehicle, Width: 15},
			{Header: "NO. PLATE", Key: colPlate, Width: 12},
			{Header: "PAYMENT STATUS", Key: colPaymentStatus, Width: 15},
			{Header: "TELLER NO.", Key: colTeller, Width: 18},
			{Header: "AMOUNT", Key: colAmount, Width: 15},
		},
		extra: func(b *record.Booking, _ rowContext) map[string]Cell {
			status := "UNPAID"
			if b.Paid {
				status = "PAID"
			}
			return map[string]Cell{
				colPaymentStatus: Text(status),
				colTeller:        Text(orNA(b.BillRef)),
			}
		},
	},
	TypeUnpaid: {
		Title: "UNPAID BOOKINGS REPORT",
		Columns: []Column{
			{Header: "S/NO", Key: colSerial, Width: 8},
			{Header: "DATE", Key: colDate, Width: 12},
			{Header: "TICKET NO.", Key: colTicket, Width: 18},
			{Header: "OFFENDER'S NAME", Key: colName, Width: 25},
			{Header: "PHONE NO.", Key: colPhone, Width: 15},
			{Header: "OFFENCE", Key: colOffence, Width: 40},
			{Header: "NO. PLATE", Key: colPlate, Width: 12},
			{Header: "DAYS OVERDUE", Key: colDaysOverdue, Width: 12},
			{Header: "AMOUNT", Key: colAmount, Width: 15},
		},
		extra: func(b *record.Booking, ctx rowContext) map[string]Cell {
			return map[string]Cell{
				colPhone:       Text(orNA(b.PhoneNo)),
				colDaysOverdue: Number(float64(DaysOverdue(b.CreatedAt, ctx.now))),
			}
		},
	},
}

// TemplateFor returns the template of t
func TemplateFor(t Type) (Template, bool) {
	tpl, ok := templates[t]
	return tpl, ok
}

func paymentModeCells(b *record.Booking, _ rowContext) map[string]Cell {
	mode := "Pending"
	if b.Paid {
		mode = "ePayment"
	}
	return map[string]Cell{
		colPaymentMode: Text(mode),
		colTeller:      Text(orNA(b.BillRef)),
	}
}

// row lays a booking out in column order
func (t Template) row(b *record.Booking, ctx rowContext) Row {
	values := map[string]Cell{
		colSerial:  Number(float64(ctx.serial)),
		colDate:    Text(ctx.date),
		colTicket:  Text(TicketNo(b)),
		colName:    Text(orNA(b.Name)),
		colOffence: Text(orNA(b.OffenceNames())),
		colVehicle: Text(orNA(b.Vehicle())),
		colPlate:   Text(orNA(b.Registration)),
		colAmount:  Currency(b.Price),
	}
	for k, v := range t.extra(b, ctx) {
		values[k] = v
	}

	cells := make([]Cell, len(t.Columns))
	for i, col := range t.Columns {
		cells[i] = values[col.Key]
	}
	return Row{Kind: RowData, Cells: cells}
}

// TicketNo is the bill reference, or the tail of the booking id when no bill
// was raised
func TicketNo(b *record.Booking) string {
	if b.BillRef != "" {
		return b.BillRef
	}
	id := b.ID.String()
	if len(id) > 10 {
		return id[len(id)-10:]
	}
	return id
}

// DaysOverdue counts started days between createdAt and now
func DaysOverdue(createdAt, now time.Time) int {
	d := now.Sub(createdAt)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(d.Hours() / 24))
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
