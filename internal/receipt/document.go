// Package receipt builds the transport-independent receipt document that
// the escpos package encodes. Building and encoding are kept apart so the
// document can be inspected and snapshot-tested without a printer.
package receipt

// Document is the logical receipt. String fields are already formatted for
// display; empty optional fields mean the row is omitted entirely.
type Document struct {
	Header Header
	Meta   Meta
	Lines  []Line
	Totals Totals
	Footer Footer

	// NoPricing marks a kitchen ticket: item lines carry no prices and
	// the totals block is skipped.
	NoPricing bool
}

type Header struct {
	StoreName    string
	AddressLines []string
}

type Meta struct {
	OrderNumber  string
	Timestamp    string
	CustomerName string
	TableLabel   string
	CashierName  string
	PaymentLabel string
	Notes        string
}

type Line struct {
	Name     string
	Quantity int
	Price    int64
	Note     string
}

// Totals are non-negative amounts in the smallest currency unit.
// GrandTotal == Subtotal - Discount + Tax; Tendered/Change are optional.
type Totals struct {
	Subtotal   int64
	Discount   int64
	Tax        int64
	GrandTotal int64
	Tendered   int64
	Change     int64
}

type Footer struct {
	Message   string
	QRPayload string
}
