// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/your-org/tapecar-backend/internal/domain/catalog"
)

// ProductGetter resolves products for add-to-cart snapshots.
type ProductGetter interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// Service handles cart business logic. Each mutation is atomic from the
// caller's perspective: the full cart is loaded, mutated, and saved in one
// call. The storage layer is last-write-wins by design.
type Service struct {
	store   Storage
	catalog ProductGetter
}

// NewService creates a new cart service
func NewService(store Storage, catalog ProductGetter) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
	}
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Year      string `json:"year"`
}

// Response represents a cart with its computed totals
type Response struct {
	Cart   *Cart  `json:"cart"`
	Totals Totals `json:"totals"`
}

// Get retrieves the cart for a session, rehydrating it from storage. A
// session with no stored cart gets a fresh empty one.
func (s *Service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	c, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, ErrCartNotFound) {
		now := time.Now().UTC()
		return &Cart{SessionID: sessionID, Items: []LineItem{}, CreatedAt: now, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Add puts a product in the cart. Adding an already-present product
// increments its quantity rather than duplicating the line. The product
// snapshot (title, prices, image, dimensions) is captured here.
func (s *Service) Add(ctx context.Context, sessionID string, req *AddItemRequest) (*Cart, error) {
	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if i := c.findItem(req.ProductID); i >= 0 {
		c.Items[i].Quantity += req.Quantity
	} else {
		c.Items = append(c.Items, LineItem{
			ProductID: product.ID,
			Title:     product.Title,
			ListPrice: product.Price,
			UnitPrice: product.DiscountedPrice(),
			Image:     product.MainImage(),
			WidthCm:   product.WidthCm,
			HeightCm:  product.HeightCm,
			LengthCm:  product.LengthCm,
			WeightKg:  product.WeightKg,
			Quantity:  req.Quantity,
			Year:      req.Year,
			AddedAt:   time.Now().UTC(),
		})
	}

	return c, s.persist(ctx, c)
}

// SetQuantity replaces a line's quantity in place. A quantity of zero or
// less removes the line.
func (s *Service) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	i := c.findItem(productID)
	if i < 0 {
		return c, nil
	}

	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = quantity
	}

	return c, s.persist(ctx, c)
}

// Remove deletes the line with the given product id. Removing an absent
// product is a no-op.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) (*Cart, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	i := c.findItem(productID)
	if i < 0 {
		return c, nil
	}

	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return c, s.persist(ctx, c)
}

// Clear empties the cart and deletes its stored state.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *Service) persist(ctx context.Context, c *Cart) error {
	c.UpdatedAt = time.Now().UTC()
	return s.store.Save(ctx, c)
}
