package report

import "github.com/shopspring/decimal"

// Summary is the digest stored with a report so clients need not download it
type Summary struct {
	TotalRecords int     `json:"totalRecords"`
	TotalAmount  float64 `json:"totalAmount"`
	PaidCount    int     `json:"paidCount"`
	PaidAmount   float64 `json:"paidAmount"`
	UnpaidCount  int     `json:"unpaidCount"`
	UnpaidAmount float64 `json:"unpaidAmount"`
}

// tally accumulates a Summary without float drift
type tally struct {
	records, paid, unpaid int
	total, paidAmt, unpaidAmt decimal.Decimal
}

func (t *tally) add(amount decimal.Decimal, paid bool) {
	t.records++
	t.total = t.total.Add(amount)
	if paid {
		t.paid++
		t.paidAmt = t.paidAmt.Add(amount)
		return
	}
	t.unpaid++
	t.unpaidAmt = t.unpaidAmt.Add(amount)
}

func (t *tally) summary() Summary {
	return Summary{
		TotalRecords: t.records,
		TotalAmount:  t.total.InexactFloat64(),
		PaidCount:    t.paid,
		PaidAmount:   t.paidAmt.InexactFloat64(),
		UnpaidCount:  t.unpaid,
		UnpaidAmount: t.unpaidAmt.InexactFloat64(),
	}
}
