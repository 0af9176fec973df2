// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/your-org/tapecar-backend/internal/domain/freight"
	"github.com/your-org/tapecar-backend/internal/domain/pricing"
)

// Product represents a catalog product document. The document id is the
// content-addressed slug derived from brand and model.
type Product struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Brand       string    `bson:"brand" json:"brand"`
	Model       string    `bson:"model" json:"model"`
	Price       int64     `bson:"price" json:"price"` // list price in centavos
	Description string    `bson:"description" json:"description"`
	Images      []string  `bson:"images" json:"images"` // ordered hosted URLs
	WidthCm     float64   `bson:"width_cm" json:"width_cm"`
	HeightCm    float64   `bson:"height_cm" json:"height_cm"`
	LengthCm    float64   `bson:"length_cm" json:"length_cm"`
	WeightKg    float64   `bson:"weight_kg" json:"weight_kg"`
	Years       []string  `bson:"years,omitempty" json:"years,omitempty"` // selectable vehicle years
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// DiscountedPrice returns the storewide-discounted price in centavos.
// The discounted price is always derived, never stored.
func (p *Product) DiscountedPrice() int64 {
	return pricing.DiscountedMinorUnits(p.Price)
}

// Dimensions returns the product's physical attributes for freight estimation.
func (p *Product) Dimensions() freight.Dimensions {
	return freight.Dimensions{
		WeightKg: p.WeightKg,
		WidthCm:  p.WidthCm,
		HeightCm: p.HeightCm,
		LengthCm: p.LengthCm,
	}
}

// ShippingWeight returns the chargeable weight for this product alone.
func (p *Product) ShippingWeight() float64 {
	return freight.ShipmentWeight(p.Dimensions())
}

// MainImage returns the first image URL, or empty when none exist.
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// View is the customer-facing projection of a product, with derived localized
// price strings.
type View struct {
	Product
	PriceFormatted      string  `json:"price_formatted"`
	DiscountedPrice     int64   `json:"discounted_price"`
	DiscountedFormatted string  `json:"discounted_price_formatted"`
	DiscountPercent     int     `json:"discount_percent"`
	ShippingWeightKg    float64 `json:"shipping_weight_kg"`
}

// NewView builds the customer-facing projection for a product.
func NewView(p Product) View {
	discounted := p.DiscountedPrice()
	return View{
		Product:             p,
		PriceFormatted:      pricing.FormatMinorUnits(p.Price),
		DiscountedPrice:     discounted,
		DiscountedFormatted: pricing.FormatMinorUnits(discounted),
		DiscountPercent: pricing.DiscountPercentage(
			pricing.FromMinorUnits(p.Price), pricing.FromMinorUnits(discounted)),
		ShippingWeightKg: p.ShippingWeight(),
	}
}
