package receipt

import (
	"log/slog"
	"strings"
	"time"

	"warungpos/printerd/internal/model"
)

const (
	DefaultStoreName = "WARUNG POS"
	DefaultFooter    = "Terima Kasih!"

	timestampLayout = "02/01/06 15:04"
)

// Internal payment codes mapped to receipt labels. Unknown codes pass
// through verbatim.
var paymentLabels = map[string]string{
	"cash":     "Tunai",
	"qris":     "QRIS",
	"transfer": "Transfer",
	"card":     "Kartu",
	"ewallet":  "E-Wallet",
}

func PaymentLabel(code string) string {
	if label, ok := paymentLabels[strings.ToLower(code)]; ok {
		return label
	}
	return code
}

// Build assembles the customer receipt. The stored order total stays
// authoritative for display; the total recomputed from the items is used
// only to flag inconsistent input.
func Build(order model.Order, items []model.OrderItem, settings model.RestaurantSettings) *Document {
	doc := &Document{
		Header: buildHeader(settings),
		Meta: Meta{
			OrderNumber:  OrderNumber(order.ID),
			Timestamp:    order.CreatedAt.Format(timestampLayout),
			CustomerName: order.CustomerName,
			TableLabel:   order.TableLabel,
			CashierName:  order.CashierName,
			PaymentLabel: PaymentLabel(order.PaymentMethod),
			Notes:        order.Notes,
		},
		Lines: buildLines(items),
		Totals: Totals{
			Subtotal:   order.Subtotal,
			Discount:   order.Discount,
			Tax:        order.Tax,
			GrandTotal: order.Total,
			Tendered:   order.AmountTendered,
			Change:     order.ChangeDue,
		},
		Footer: Footer{Message: footerMessage(settings)},
	}

	if strings.EqualFold(order.PaymentMethod, "qris") && settings.QRISPayload != "" {
		doc.Footer.QRPayload = settings.QRISPayload
	}

	validateTotals(order, items)
	return doc
}

// BuildKitchen assembles the kitchen ticket: no prices, no totals, item
// notes kept since the kitchen needs them.
func BuildKitchen(order model.Order, items []model.OrderItem, settings model.RestaurantSettings) *Document {
	return &Document{
		Header: Header{StoreName: "DAPUR"},
		Meta: Meta{
			OrderNumber:  OrderNumber(order.ID),
			Timestamp:    order.CreatedAt.Format(timestampLayout),
			TableLabel:   order.TableLabel,
			CustomerName: order.CustomerName,
			Notes:        order.Notes,
		},
		Lines:     buildLines(items),
		NoPricing: true,
	}
}

// BuildTest assembles the minimal diagnostic document used to verify
// connectivity before a real transaction.
func BuildTest(settings model.RestaurantSettings, now time.Time) *Document {
	return &Document{
		Header: buildHeader(settings),
		Meta: Meta{
			OrderNumber: "#TEST",
			Timestamp:   now.Format(timestampLayout),
		},
		Lines: []Line{
			{Name: "Tes Cetak OK", Quantity: 1, Price: 0},
		},
		Totals: Totals{},
		Footer: Footer{Message: "Printer siap digunakan"},
	}
}

// OrderNumber is the last 6 characters of the order id, upper-cased and
// prefixed with '#'.
func OrderNumber(id string) string {
	id = strings.ToUpper(id)
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return "#" + id
}

func buildHeader(settings model.RestaurantSettings) Header {
	name := settings.RestaurantName
	if name == "" {
		name = DefaultStoreName
	}
	var addr []string
	for _, line := range []string{settings.AddressLine1, settings.AddressLine2, settings.AddressLine3} {
		if line != "" {
			addr = append(addr, line)
		}
	}
	return Header{StoreName: name, AddressLines: addr}
}

func buildLines(items []model.OrderItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Note:     item.Notes,
		})
	}
	return lines
}

func footerMessage(settings model.RestaurantSettings) string {
	if settings.FooterMessage != "" {
		return settings.FooterMessage
	}
	return DefaultFooter
}

// validateTotals cross-checks the stored amounts against the items. The
// upstream cart is known to disagree with itself about tax and discount,
// so a mismatch is logged, never corrected.
func validateTotals(order model.Order, items []model.OrderItem) {
	var computed int64
	for _, item := range items {
		computed += item.Price * int64(item.Quantity)
	}
	expected := order.Subtotal - order.Discount + order.Tax
	if computed != order.Subtotal || expected != order.Total {
		slog.Warn("Order totals don't add up, printing stored values",
			"order", order.ID,
			"items_total", computed,
			"subtotal", order.Subtotal,
			"discount", order.Discount,
			"tax", order.Tax,
			"total", order.Total,
		)
	}
}
