package model

import "time"

// Order is the slice of an order this agent needs for printing. All money
// values are in the smallest currency unit (whole rupiah, no cents).
type Order struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	CustomerName   string    `json:"customer_name,omitempty"`
	TableLabel     string    `json:"table_label,omitempty"`
	CashierName    string    `json:"cashier_name,omitempty"`
	PaymentMethod  string    `json:"payment_method,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Subtotal       int64     `json:"subtotal"`
	Discount       int64     `json:"discount"`
	Tax            int64     `json:"tax"`
	Total          int64     `json:"total"`
	AmountTendered int64     `json:"amount_tendered,omitempty"`
	ChangeDue      int64     `json:"change_due,omitempty"`
}

type OrderItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// RestaurantSettings carries the store identity printed on every receipt.
// Empty fields fall back to defaults at layout time.
type RestaurantSettings struct {
	RestaurantName string `json:"restaurant_name,omitempty"`
	AddressLine1   string `json:"address_line1,omitempty"`
	AddressLine2   string `json:"address_line2,omitempty"`
	AddressLine3   string `json:"address_line3,omitempty"`
	FooterMessage  string `json:"footer_message,omitempty"`
	QRISPayload    string `json:"qris_payload,omitempty"`
}

// PrintRequest is the payload the POS UI posts to /print.
type PrintRequest struct {
	Token    string             `json:"token"`
	Order    Order              `json:"order"`
	Items    []OrderItem        `json:"items"`
	Settings RestaurantSettings `json:"settings"`
	Kitchen  bool               `json:"kitchen,omitempty"`
}

type ConnectRequest struct {
	Token   string `json:"token"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

type DisconnectRequest struct {
	Token  string `json:"token"`
	Forget bool   `json:"forget,omitempty"`
}

// PrintResponse is the uniform result every printer-facing endpoint
// resolves to. Error holds an error-kind token, not a raw transport
// message.
type PrintResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id,omitempty"`
	Error   string `json:"error,omitempty"`
}
