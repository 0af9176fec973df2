// internal/pkg/email/types.go
package email

// Email represents an outbound email message
type Email struct {
	To          []string
	Subject     string
	HTMLContent string
}

// OrderItemData is one purchased line as rendered in order emails.
type OrderItemData struct {
	Title     string
	Quantity  int
	UnitPrice string
	Year      string
}

// OrderEmailData carries everything the order templates render.
type OrderEmailData struct {
	StoreName    string
	OrderNumber  string
	CustomerName string
	CustomerCPF  string
	Email        string
	Phone        string
	Items        []OrderItemData
	Subtotal     string
	ShippingName string
	ShippingCost string
	Total        string
	Address      string
	Pickup       bool
	Year         int
}
