package escpos

import (
	"bytes"
	"strconv"
	"strings"

	"warungpos/printerd/internal/receipt"
)

// Profile selects the column layout implied by the paper roll width:
// 58 mm paper fits 32 characters, 80 mm fits 48.
type Profile struct {
	CharacterWidth int

	// RasterQR renders QR codes as a GS v 0 raster instead of the native
	// GS ( k symbol, for firmwares that lack the symbol command.
	RasterQR bool

	// KickDrawer pulses the cash drawer after the cut.
	KickDrawer bool
}

var (
	Paper58 = Profile{CharacterWidth: 32}
	Paper80 = Profile{CharacterWidth: 48}
)

const (
	qtyColWidth   = 4
	priceColWidth = 10
)

// Encode renders the document into a single ESC/POS command stream.
// It is deterministic: the same document and profile always produce
// byte-identical output.
func Encode(doc *receipt.Document, profile Profile) []byte {
	width := profile.CharacterWidth
	if width <= 0 {
		width = Paper58.CharacterWidth
	}

	e := &encoder{width: width}
	e.cmd(initPrinter())

	e.header(&doc.Header)
	e.meta(&doc.Meta)
	e.items(doc)
	if !doc.NoPricing {
		e.totals(&doc.Totals)
	}
	e.footer(&doc.Footer, profile)

	e.cmd(feedLines(3))
	e.cmd(cutPaper())
	if profile.KickDrawer {
		e.cmd(kickDrawer())
	}
	return e.buf.Bytes()
}

type encoder struct {
	buf   bytes.Buffer
	width int
}

func (e *encoder) cmd(b []byte) {
	e.buf.Write(b)
}

// text writes sanitized content: printable ASCII plus tab, newline and
// carriage return. Anything else renders as garbage on most ESC/POS
// firmwares, so it is dropped rather than code-page switched.
func (e *encoder) text(s string) {
	e.buf.WriteString(Sanitize(s))
}

func (e *encoder) line(s string) {
	e.text(s)
	e.buf.WriteByte('\n')
}

func (e *encoder) separator(c byte) {
	e.line(strings.Repeat(string(c), e.width))
}

func (e *encoder) header(h *receipt.Header) {
	e.cmd(setJustify(JustifyCentre))
	e.cmd(setBold(true))
	e.cmd(setSize(2, 2))
	e.line(h.StoreName)
	e.cmd(setSize(1, 1))
	e.cmd(setBold(false))
	for _, addr := range h.AddressLines {
		if addr != "" {
			e.line(addr)
		}
	}
	e.cmd(setJustify(JustifyLeft))
}

func (e *encoder) meta(m *receipt.Meta) {
	e.separator('=')
	e.labelValue("Order", m.OrderNumber)
	e.labelValue("Waktu", m.Timestamp)
	if m.TableLabel != "" {
		e.labelValue("Meja", m.TableLabel)
	}
	if m.CustomerName != "" {
		e.labelValue("Pelanggan", m.CustomerName)
	}
	if m.CashierName != "" {
		e.labelValue("Kasir", m.CashierName)
	}
	if m.PaymentLabel != "" {
		e.labelValue("Bayar", m.PaymentLabel)
	}
}

func (e *encoder) items(doc *receipt.Document) {
	e.separator('-')
	for _, item := range doc.Lines {
		if doc.NoPricing {
			e.cmd(setBold(true))
			e.line(strconv.Itoa(item.Quantity) + "x " + item.Name)
			e.cmd(setBold(false))
		} else {
			e.line(e.itemRow(item))
		}
		if item.Note != "" {
			e.line("  " + item.Note)
		}
	}
	if doc.Meta.Notes != "" {
		e.separator('-')
		e.line(doc.Meta.Notes)
	}
}

func (e *encoder) totals(t *receipt.Totals) {
	e.separator('-')
	e.labelValue("Subtotal", formatAmount(t.Subtotal))
	if t.Discount > 0 {
		e.labelValue("Diskon", "-"+formatAmount(t.Discount))
	}
	if t.Tax > 0 {
		e.labelValue("Pajak", formatAmount(t.Tax))
	}
	e.cmd(setBold(true))
	e.cmd(setSize(1, 2))
	e.labelValue("TOTAL", formatAmount(t.GrandTotal))
	e.cmd(setSize(1, 1))
	e.cmd(setBold(false))
	if t.Tendered > 0 {
		e.labelValue("Dibayar", formatAmount(t.Tendered))
	}
	if t.Change > 0 {
		e.labelValue("Kembali", formatAmount(t.Change))
	}
}

func (e *encoder) footer(f *receipt.Footer, profile Profile) {
	e.separator('=')
	e.cmd(setJustify(JustifyCentre))
	if f.QRPayload != "" {
		e.buf.WriteByte('\n')
		if profile.RasterQR {
			e.cmd(qrRaster(f.QRPayload))
		} else {
			e.cmd(qrSymbol(f.QRPayload))
		}
		e.buf.WriteByte('\n')
		e.line("Scan untuk membayar")
	}
	if f.Message != "" {
		e.cmd(setBold(true))
		e.line(f.Message)
		e.cmd(setBold(false))
	}
	e.cmd(setJustify(JustifyLeft))
}

// labelValue renders one two-column row padded to exactly the paper width.
// An overlong label is cut back so at least one space separates it from
// the value; an overlong value wins over the label.
func (e *encoder) labelValue(label, value string) {
	label = Sanitize(label)
	value = Sanitize(value)

	room := e.width - len(value) - 1
	if room < 0 {
		value = value[:e.width]
		room = 0
	}
	if len(label) > room {
		label = label[:room]
	}
	pad := e.width - len(label) - len(value)
	e.buf.WriteString(label)
	e.buf.WriteString(strings.Repeat(" ", pad))
	e.buf.WriteString(value)
	e.buf.WriteByte('\n')
}

// itemRow lays out name, quantity and line total in three columns. The
// quantity and price columns are fixed; the name absorbs the rest and is
// elided when it overflows.
func (e *encoder) itemRow(item receipt.Line) string {
	nameWidth := e.width - qtyColWidth - priceColWidth

	name := Sanitize(item.Name)
	if len(name) > nameWidth {
		name = name[:nameWidth-2] + ".."
	}
	qty := "x" + strconv.Itoa(item.Quantity)
	price := formatAmount(item.Price * int64(item.Quantity))
	if len(qty) > qtyColWidth {
		qty = qty[:qtyColWidth]
	}
	if len(price) > priceColWidth {
		price = price[:priceColWidth]
	}

	return name + strings.Repeat(" ", nameWidth-len(name)) +
		strings.Repeat(" ", qtyColWidth-len(qty)) + qty +
		strings.Repeat(" ", priceColWidth-len(price)) + price
}

// Sanitize keeps printable ASCII (0x20-0x7E) plus tab, newline and
// carriage return, dropping everything else.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 0x20 && r <= 0x7E:
			b.WriteRune(r)
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// formatAmount renders rupiah with dotted thousands: 10000 -> "10.000".
func formatAmount(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out
}
