package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/tapecar-backend/internal/domain/pricing"
)

// Order status values
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Item is one purchased line, frozen at checkout time.
type Item struct {
	ProductID string `bson:"product_id" json:"product_id"`
	Title     string `bson:"title" json:"title"`
	UnitPrice int64  `bson:"unit_price" json:"unit_price"`
	Quantity  int    `bson:"quantity" json:"quantity"`
	Year      string `bson:"year,omitempty" json:"year,omitempty"`
}

// Address is the buyer's delivery address.
type Address struct {
	Street     string `bson:"street" json:"street"`
	Number     string `bson:"number" json:"number"`
	Complement string `bson:"complement,omitempty" json:"complement,omitempty"`
	District   string `bson:"district" json:"district"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	CEP        string `bson:"cep" json:"cep"`
}

// Customer identifies the buyer.
type Customer struct {
	Name    string  `bson:"name" json:"name"`
	Email   string  `bson:"email" json:"email"`
	Phone   string  `bson:"phone,omitempty" json:"phone,omitempty"`
	CPF     string  `bson:"cpf" json:"cpf"`
	Address Address `bson:"address" json:"address"`
}

// Shipping records the freight option the buyer chose, priced at the
// moment of checkout.
type Shipping struct {
	ServiceCode  string `bson:"service_code" json:"service_code"`
	ServiceName  string `bson:"service_name" json:"service_name"`
	Price        int64  `bson:"price" json:"price"`
	DeadlineDays int    `bson:"deadline_days" json:"deadline_days"`
	Estimated    bool   `bson:"estimated" json:"estimated"`
}

// Order is a checkout outcome. It is created as pending when the
// payment session is opened and promoted to paid by the webhook.
type Order struct {
	Number           string     `bson:"_id" json:"number"`
	PaymentSessionID string     `bson:"payment_session_id" json:"payment_session_id"`
	Customer         Customer   `bson:"customer" json:"customer"`
	Items            []Item     `bson:"items" json:"items"`
	Shipping         Shipping   `bson:"shipping" json:"shipping"`
	Subtotal         int64      `bson:"subtotal" json:"subtotal"`
	Total            int64      `bson:"total" json:"total"`
	Status           string     `bson:"status" json:"status"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
	PaidAt           *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
}

// GenerateNumber creates a human-quotable order number, e.g.
// TAP-20260901-3F2A9C1B.
func GenerateNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("TAP-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// FormattedSubtotal returns the subtotal as a localized price string.
func (o *Order) FormattedSubtotal() string {
	return pricing.FormatMinorUnits(o.Subtotal)
}

// FormattedShipping returns the freight charge as a localized price string.
func (o *Order) FormattedShipping() string {
	return pricing.FormatMinorUnits(o.Shipping.Price)
}

// FormattedTotal returns the grand total as a localized price string.
func (o *Order) FormattedTotal() string {
	return pricing.FormatMinorUnits(o.Total)
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}
