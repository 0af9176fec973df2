// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/tapecar-backend/internal/domain/cart"
	"github.com/your-org/tapecar-backend/internal/domain/freight"
	"github.com/your-org/tapecar-backend/internal/domain/order"
	"github.com/your-org/tapecar-backend/internal/domain/payment"
	"github.com/your-org/tapecar-backend/internal/domain/pricing"
)

var (
	// ErrEmptyCart is returned when checkout is attempted on an empty
	// cart. It is checked before any external call is made.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrShippingUnavailable is returned when the chosen shipping
	// service code is not among the quotes available at submit time.
	ErrShippingUnavailable = errors.New("selected shipping option is not available")
)

// Submission is the buyer-entered checkout form.
type Submission struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	CPF          string `json:"cpf" binding:"required"`
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	District     string `json:"district"`
	City         string `json:"city"`
	State        string `json:"state"`
	ShippingCode string `json:"shipping_code" binding:"required"`
}

// FieldError names one invalid form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every invalid field so the storefront can
// mark them all in one round trip.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + ": " + f.Message
	}
	return "invalid submission: " + strings.Join(msgs, "; ")
}

// Result is what a successful submit hands back to the storefront.
type Result struct {
	OrderNumber string `json:"order_number"`
	PaymentURL  string `json:"payment_url"`
}

// CartAccessor is the slice of the cart service checkout needs.
type CartAccessor interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// ShippingQuoter obtains freight quotes for a shipment.
type ShippingQuoter interface {
	Quote(ctx context.Context, destinationCEP string, dims freight.Dimensions) ([]freight.Quote, bool)
}

// PaymentStarter opens hosted payment sessions.
type PaymentStarter interface {
	CreateSession(ctx context.Context, req *payment.CreateSessionRequest) (*payment.Session, error)
}

// OrderRecorder persists pending orders.
type OrderRecorder interface {
	Create(ctx context.Context, o *order.Order) error
}

// Service orchestrates the checkout flow: validate the submission,
// price the freight server-side, open the payment session, record the
// pending order and clear the cart.
type Service struct {
	carts    CartAccessor
	quoter   ShippingQuoter
	payments PaymentStarter
	orders   OrderRecorder
	logger   *logrus.Logger
}

// NewService creates a new checkout service
func NewService(carts CartAccessor, quoter ShippingQuoter, payments PaymentStarter, orders OrderRecorder, logger *logrus.Logger) *Service {
	return &Service{
		carts:    carts,
		quoter:   quoter,
		payments: payments,
		orders:   orders,
		logger:   logger,
	}
}

// QuoteShipping quotes freight for the session's current cart. The
// pickup option is always appended so the storefront renders it
// alongside the carrier services.
func (s *Service) QuoteShipping(ctx context.Context, sessionID, cep string) ([]freight.Quote, bool, error) {
	if !ValidCEP(cep) {
		return nil, false, &ValidationError{Fields: []FieldError{
			{Field: "cep", Message: "must be an 8-digit postal code"},
		}}
	}

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	if c.IsEmpty() {
		return nil, false, ErrEmptyCart
	}

	quotes, estimated := s.quoter.Quote(ctx, NormalizeDigits(cep), c.AggregateDimensions())
	quotes = append(quotes, freight.PickupQuote())
	return quotes, estimated, nil
}

// Submit runs the full checkout. The cart is checked first so an empty
// session never reaches the freight or payment providers; the chosen
// shipping option is re-priced server-side rather than trusting any
// value the client may have cached.
func (s *Service) Submit(ctx context.Context, sessionID string, sub *Submission) (*Result, error) {
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	if verr := s.validate(sub); verr != nil {
		return nil, verr
	}

	shipping, err := s.resolveShipping(ctx, c, sub)
	if err != nil {
		return nil, err
	}

	totals := c.CalculateTotals()
	total := totals.SubTotal + shipping.Price

	session, err := s.payments.CreateSession(ctx, buildSessionRequest(c, shipping))
	if err != nil {
		return nil, err
	}

	o := &order.Order{
		PaymentSessionID: session.ID,
		Customer: order.Customer{
			Name:  strings.TrimSpace(sub.Name),
			Email: strings.TrimSpace(sub.Email),
			Phone: strings.TrimSpace(sub.Phone),
			CPF:   NormalizeDigits(sub.CPF),
			Address: order.Address{
				Street:     strings.TrimSpace(sub.Street),
				Number:     strings.TrimSpace(sub.Number),
				Complement: strings.TrimSpace(sub.Complement),
				District:   strings.TrimSpace(sub.District),
				City:       strings.TrimSpace(sub.City),
				State:      strings.TrimSpace(sub.State),
				CEP:        NormalizeDigits(sub.CEP),
			},
		},
		Items:    orderItems(c),
		Shipping: shipping,
		Subtotal: totals.SubTotal,
		Total:    total,
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// The order exists and the buyer is on their way to the
		// provider; a stale cart is the lesser problem.
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("Failed to clear cart after checkout")
	}

	s.logger.WithFields(logrus.Fields{
		"order_number":       o.Number,
		"payment_session_id": session.ID,
		"shipping_code":      shipping.ServiceCode,
		"total":              total,
	}).Info("Checkout submitted")

	return &Result{OrderNumber: o.Number, PaymentURL: session.URL}, nil
}

func (s *Service) validate(sub *Submission) *ValidationError {
	var fields []FieldError

	if strings.TrimSpace(sub.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "is required"})
	}
	if email := strings.TrimSpace(sub.Email); email == "" || !strings.Contains(email, "@") {
		fields = append(fields, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if !ValidCPF(sub.CPF) {
		fields = append(fields, FieldError{Field: "cpf", Message: "must be a valid 11-digit CPF"})
	}

	if sub.ShippingCode != freight.ServiceCodePickup {
		if !ValidCEP(sub.CEP) {
			fields = append(fields, FieldError{Field: "cep", Message: "must be an 8-digit postal code"})
		}
		if strings.TrimSpace(sub.Street) == "" {
			fields = append(fields, FieldError{Field: "street", Message: "is required for delivery"})
		}
		if strings.TrimSpace(sub.Number) == "" {
			fields = append(fields, FieldError{Field: "number", Message: "is required for delivery"})
		}
		if strings.TrimSpace(sub.City) == "" {
			fields = append(fields, FieldError{Field: "city", Message: "is required for delivery"})
		}
		if strings.TrimSpace(sub.State) == "" {
			fields = append(fields, FieldError{Field: "state", Message: "is required for delivery"})
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// resolveShipping re-quotes freight at submit time and matches the
// buyer's chosen service code against the fresh quotes.
func (s *Service) resolveShipping(ctx context.Context, c *cart.Cart, sub *Submission) (order.Shipping, error) {
	if sub.ShippingCode == freight.ServiceCodePickup {
		return quoteToShipping(freight.PickupQuote(), false)
	}

	quotes, estimated := s.quoter.Quote(ctx, NormalizeDigits(sub.CEP), c.AggregateDimensions())
	q, ok := freight.FindByServiceCode(quotes, sub.ShippingCode)
	if !ok {
		return order.Shipping{}, ErrShippingUnavailable
	}

	return quoteToShipping(q, estimated)
}

// quoteToShipping converts the provider's localized price string into
// centavos. A price we cannot parse means the option cannot be sold.
func quoteToShipping(q freight.Quote, estimated bool) (order.Shipping, error) {
	amount, err := pricing.ParseAmount(q.Price)
	if err != nil {
		return order.Shipping{}, ErrShippingUnavailable
	}
	deadline, _ := strconv.Atoi(strings.TrimSpace(q.DeadlineDays))

	return order.Shipping{
		ServiceCode:  q.ServiceCode,
		ServiceName:  q.ServiceName,
		Price:        pricing.ToMinorUnits(amount),
		DeadlineDays: deadline,
		Estimated:    estimated,
	}, nil
}

func buildSessionRequest(c *cart.Cart, shipping order.Shipping) *payment.CreateSessionRequest {
	items := make([]payment.SessionItem, 0, len(c.Items))
	for _, item := range c.Items {
		si := payment.SessionItem{
			Name:     item.Title,
			Price:    item.UnitPrice,
			Quantity: item.Quantity,
		}
		if item.Image != "" {
			si.Images = []string{item.Image}
		}
		items = append(items, si)
	}

	req := &payment.CreateSessionRequest{Items: items}
	if shipping.Price > 0 {
		req.Shipping = &payment.SessionShipping{Valor: pricing.FormatMinorUnits(shipping.Price)}
	}
	return req
}

func orderItems(c *cart.Cart) []order.Item {
	items := make([]order.Item, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, order.Item{
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Year:      item.Year,
		})
	}
	return items
}
