package report

// CellKind tells a renderer how to write a cell
type CellKind int

const (
	CellString CellKind = iota
	CellNumber
	CellCurrency
)

// Cell is one typed value of a row
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// Text builds a string cell
func Text(s string) Cell { return Cell{Kind: CellString, Text: s} }

// Number builds a plain numeric cell
func Number(n float64) Cell { return Cell{Kind: CellNumber, Number: n} }

// Currency builds a money cell, rendered as #,##0.00
func Currency(n float64) Cell { return Cell{Kind: CellCurrency, Number: n} }

// RowKind tags a row so renderers can style it
type RowKind int

const (
	RowTitle RowKind = iota
	RowBlank
	RowHeader
	RowData
	RowSubtotal
	RowGrandTotal
)

func (k RowKind) String() string {
	switch k {
	case RowTitle:
		return "title"
	case RowBlank:
		return "blank"
	case RowHeader:
		return "header"
	case RowData:
		return "data"
	case RowSubtotal:
		return "subtotal"
	case RowGrandTotal:
		return "grand_total"
	default:
		return "unknown"
	}
}

// Row is one line of the document. Span > 1 merges the first Span columns
// into the first cell.
type Row struct {
	Kind  RowKind
	Cells []Cell
	Span  int
}

// Column describes one column of a report template
type Column struct {
	Header string
	Key    string
	Width  float64
}

// Document is a rendered-format-neutral report table
type Document struct {
	Title   string
	Sheet   string
	Columns []Column
	Rows    []Row
}

// Count returns how many rows of kind the document holds
func (d *Document) Count(kind RowKind) int {
	n := 0
	for _, r := range d.Rows {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

// Last returns the final row, the grand total for a compiled report
func (d *Document) Last() Row {
	if len(d.Rows) == 0 {
		return Row{}
	}
	return d.Rows[len(d.Rows)-1]
}
