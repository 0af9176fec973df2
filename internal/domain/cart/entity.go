// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/tapecar-backend/internal/domain/freight"
)

// LineItem is one cart entry: one product id with a quantity. The product
// attributes are a snapshot captured at add-to-cart time, not re-fetched live;
// validity against the catalog is re-checked at checkout.
type LineItem struct {
	ProductID string    `json:"product_id"`
	Title     string    `json:"title"`
	ListPrice int64     `json:"list_price"` // centavos at add time
	UnitPrice int64     `json:"unit_price"` // discounted centavos at add time
	Image     string    `json:"image"`
	WidthCm   float64   `json:"width_cm"`
	HeightCm  float64   `json:"height_cm"`
	LengthCm  float64   `json:"length_cm"`
	WeightKg  float64   `json:"weight_kg"`
	Quantity  int       `json:"quantity"`
	Year      string    `json:"year,omitempty"` // optional selected vehicle year
	AddedAt   time.Time `json:"added_at"`
}

// Dimensions returns the line's physical attributes, scaled by quantity.
func (li *LineItem) Dimensions() []freight.Dimensions {
	dims := make([]freight.Dimensions, li.Quantity)
	for i := range dims {
		dims[i] = freight.Dimensions{
			WeightKg: li.WeightKg,
			WidthCm:  li.WidthCm,
			HeightCm: li.HeightCm,
			LengthCm: li.LengthCm,
		}
	}
	return dims
}

// Subtotal returns the line total in centavos at the discounted unit price.
func (li *LineItem) Subtotal() int64 {
	return li.UnitPrice * int64(li.Quantity)
}

// Cart represents a session-scoped shopping cart. At most one line item
// exists per product id; insertion order is preserved.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int   `json:"item_count"`     // number of unique lines
	TotalQuantity int   `json:"total_quantity"` // sum of all quantities
	SubTotal      int64 `json:"sub_total"`      // centavos, before freight
}

// CalculateTotals computes the cart's summary numbers.
func (c *Cart) CalculateTotals() Totals {
	totals := Totals{ItemCount: len(c.Items)}
	for _, item := range c.Items {
		totals.TotalQuantity += item.Quantity
		totals.SubTotal += item.Subtotal()
	}
	return totals
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// AggregateDimensions sums the physical attributes of every unit in the cart
// for a freight quote.
func (c *Cart) AggregateDimensions() freight.Dimensions {
	var all []freight.Dimensions
	for i := range c.Items {
		all = append(all, c.Items[i].Dimensions()...)
	}
	return freight.AggregateDimensions(all)
}

// findItem returns the index of the line with the given product id, or -1.
func (c *Cart) findItem(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
