package checkout

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/tapecar-backend/internal/domain/cart"
	"github.com/your-org/tapecar-backend/internal/domain/freight"
	"github.com/your-org/tapecar-backend/internal/domain/order"
	"github.com/your-org/tapecar-backend/internal/domain/payment"
)

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "12345678901", NormalizeDigits("123.456.789-01"))
	assert.Equal(t, "01310100", NormalizeDigits("01310-100"))
	assert.Equal(t, "", NormalizeDigits("abc"))
}

func TestValidCPF(t *testing.T) {
	assert.True(t, ValidCPF("12345678901"))
	assert.True(t, ValidCPF("123.456.789-01"))
	assert.False(t, ValidCPF("11111111111"), "repeated-digit placeholder")
	assert.False(t, ValidCPF("123456789"), "too short")
	assert.False(t, ValidCPF("123456789012"), "too long")
	assert.False(t, ValidCPF(""))
}

func TestValidCEP(t *testing.T) {
	assert.True(t, ValidCEP("01310100"))
	assert.True(t, ValidCEP("01310-100"))
	assert.False(t, ValidCEP("0131010"))
	assert.False(t, ValidCEP(""))
}

type mockCarts struct {
	m       sync.RWMutex
	carts   map[string]*cart.Cart
	cleared []string
}

func newMockCarts() *mockCarts {
	return &mockCarts{carts: make(map[string]*cart.Cart)}
}

func (m *mockCarts) Get(_ context.Context, sessionID string) (*cart.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if c, ok := m.carts[sessionID]; ok {
		return c, nil
	}
	return &cart.Cart{SessionID: sessionID}, nil
}

func (m *mockCarts) Clear(_ context.Context, sessionID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cleared = append(m.cleared, sessionID)
	delete(m.carts, sessionID)
	return nil
}

type mockQuoter struct {
	m      sync.Mutex
	quotes []freight.Quote
	est    bool
	calls  int
}

func (m *mockQuoter) Quote(_ context.Context, _ string, _ freight.Dimensions) ([]freight.Quote, bool) {
	m.m.Lock()
	defer m.m.Unlock()
	m.calls++
	return m.quotes, m.est
}

type mockPayments struct {
	m       sync.Mutex
	session *payment.Session
	err     error
	last    *payment.CreateSessionRequest
	calls   int
}

func (m *mockPayments) CreateSession(_ context.Context, req *payment.CreateSessionRequest) (*payment.Session, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.calls++
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

type mockOrders struct {
	m      sync.Mutex
	orders []*order.Order
}

func (m *mockOrders) Create(_ context.Context, o *order.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if o.Number == "" {
		o.Number = order.GenerateNumber()
	}
	o.Status = order.StatusPending
	o.CreatedAt = time.Now().UTC()
	m.orders = append(m.orders, o)
	return nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testCart() *cart.Cart {
	return &cart.Cart{
		SessionID: "session-1",
		Items: []cart.LineItem{
			{
				ProductID: "tapete-volkswagen-gol",
				Title:     "Tapete Gol",
				ListPrice: 5000,
				UnitPrice: 3500,
				Image:     "https://img.example/gol.jpg",
				WidthCm:   60, HeightCm: 2, LengthCm: 90, WeightKg: 1.2,
				Quantity: 2,
			},
		},
	}
}

func providerQuotes() []freight.Quote {
	return []freight.Quote{
		{ServiceCode: freight.ServiceCodePAC, ServiceName: "PAC", Price: "R$21,30", DeadlineDays: "9"},
		{ServiceCode: freight.ServiceCodeSEDEX, ServiceName: "SEDEX", Price: "R$45,10", DeadlineDays: "2"},
	}
}

func validSubmission() *Submission {
	return &Submission{
		Name:         "Ana Souza",
		Email:        "ana@example.com",
		Phone:        "11999990000",
		CPF:          "123.456.789-01",
		CEP:          "01310-100",
		Street:       "Av. Paulista",
		Number:       "1000",
		District:     "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
		ShippingCode: freight.ServiceCodePAC,
	}
}

func newTestService(carts *mockCarts, quoter *mockQuoter, payments *mockPayments, orders *mockOrders) *Service {
	return NewService(carts, quoter, payments, orders, testLogger())
}

func TestSubmit(t *testing.T) {
	carts := newMockCarts()
	carts.carts["session-1"] = testCart()
	quoter := &mockQuoter{quotes: providerQuotes()}
	payments := &mockPayments{session: &payment.Session{ID: "cs_123", URL: "https://pay.example/cs_123"}}
	orders := &mockOrders{}

	svc := newTestService(carts, quoter, payments, orders)
	result, err := svc.Submit(context.Background(), "session-1", validSubmission())
	require.NoError(t, err)

	assert.NotEmpty(t, result.OrderNumber)
	assert.Equal(t, "https://pay.example/cs_123", result.PaymentURL)

	// Payment session carries unit discounted prices and the freight charge.
	require.NotNil(t, payments.last)
	require.Len(t, payments.last.Items, 1)
	assert.Equal(t, int64(3500), payments.last.Items[0].Price)
	assert.Equal(t, 2, payments.last.Items[0].Quantity)
	require.NotNil(t, payments.last.Shipping)
	assert.Equal(t, "R$21,30", payments.last.Shipping.Valor)

	// Pending order recorded with re-quoted freight and cleared cart.
	require.Len(t, orders.orders, 1)
	o := orders.orders[0]
	assert.Equal(t, "cs_123", o.PaymentSessionID)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, "12345678901", o.Customer.CPF)
	assert.Equal(t, "01310100", o.Customer.Address.CEP)
	assert.Equal(t, int64(7000), o.Subtotal)
	assert.Equal(t, int64(2130), o.Shipping.Price)
	assert.Equal(t, 9, o.Shipping.DeadlineDays)
	assert.Equal(t, int64(9130), o.Total)
	assert.Equal(t, []string{"session-1"}, carts.cleared)
}

func TestSubmitEmptyCartBlocksBeforeProviders(t *testing.T) {
	quoter := &mockQuoter{quotes: providerQuotes()}
	payments := &mockPayments{session: &payment.Session{ID: "cs_123", URL: "https://pay.example"}}
	orders := &mockOrders{}

	svc := newTestService(newMockCarts(), quoter, payments, orders)
	_, err := svc.Submit(context.Background(), "session-1", validSubmission())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, quoter.calls)
	assert.Zero(t, payments.calls)
	assert.Empty(t, orders.orders)
}

func TestSubmitValidation(t *testing.T) {
	carts := newMockCarts()
	carts.carts["session-1"] = testCart()
	svc := newTestService(carts, &mockQuoter{quotes: providerQuotes()}, &mockPayments{}, &mockOrders{})

	sub := validSubmission()
	sub.Name = "  "
	sub.Email = "not-an-email"
	sub.CPF = "11111111111"
	sub.CEP = "123"

	_, err := svc.Submit(context.Background(), "session-1", sub)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "cpf", "cep"}, fields)
}

func TestSubmitPickupSkipsAddressAndFreight(t *testing.T) {
	carts := newMockCarts()
	carts.carts["session-1"] = testCart()
	quoter := &mockQuoter{quotes: providerQuotes()}
	payments := &mockPayments{session: &payment.Session{ID: "cs_9", URL: "https://pay.example/cs_9"}}
	orders := &mockOrders{}

	svc := newTestService(carts, quoter, payments, orders)
	sub := validSubmission()
	sub.ShippingCode = freight.ServiceCodePickup
	sub.CEP = ""
	sub.Street = ""
	sub.Number = ""
	sub.City = ""
	sub.State = ""

	_, err := svc.Submit(context.Background(), "session-1", sub)
	require.NoError(t, err)

	assert.Zero(t, quoter.calls)
	require.Len(t, orders.orders, 1)
	assert.Equal(t, freight.ServiceCodePickup, orders.orders[0].Shipping.ServiceCode)
	assert.Zero(t, orders.orders[0].Shipping.Price)
	assert.Nil(t, payments.last.Shipping, "zero-cost shipping is omitted from the payment session")
}

func TestSubmitUnknownShippingCode(t *testing.T) {
	carts := newMockCarts()
	carts.carts["session-1"] = testCart()
	payments := &mockPayments{session: &payment.Session{ID: "cs_1", URL: "https://pay.example"}}

	svc := newTestService(carts, &mockQuoter{quotes: providerQuotes()}, payments, &mockOrders{})
	sub := validSubmission()
	sub.ShippingCode = "99999"

	_, err := svc.Submit(context.Background(), "session-1", sub)
	assert.ErrorIs(t, err, ErrShippingUnavailable)
	assert.Zero(t, payments.calls)
}

func TestSubmitEstimatedFallbackQuotes(t *testing.T) {
	carts := newMockCarts()
	carts.carts["session-1"] = testCart()
	quoter := &mockQuoter{quotes: freight.EstimatedQuotes(), est: true}
	payments := &mockPayments{session: &payment.Session{ID: "cs_1", URL: "https://pay.example"}}
	orders := &mockOrders{}

	svc := newTestService(carts, quoter, payments, orders)
	_, err := svc.Submit(context.Background(), "session-1", validSubmission())
	require.NoError(t, err)

	require.Len(t, orders.orders, 1)
	assert.True(t, orders.orders[0].Shipping.Estimated)
	assert.Equal(t, int64(2490), orders.orders[0].Shipping.Price)
}

func TestSubmitPaymentFailureLeavesCart(t *testing.T) {
	carts := newMockCarts()
	carts.carts["session-1"] = testCart()
	payments := &mockPayments{err: errors.New("provider down")}
	orders := &mockOrders{}

	svc := newTestService(carts, &mockQuoter{quotes: providerQuotes()}, payments, orders)
	_, err := svc.Submit(context.Background(), "session-1", validSubmission())

	assert.Error(t, err)
	assert.Empty(t, orders.orders)
	assert.Empty(t, carts.cleared)
}

func TestQuoteShipping(t *testing.T) {
	carts := newMockCarts()
	carts.carts["session-1"] = testCart()
	quoter := &mockQuoter{quotes: providerQuotes()}

	svc := newTestService(carts, quoter, &mockPayments{}, &mockOrders{})
	quotes, estimated, err := svc.QuoteShipping(context.Background(), "session-1", "01310-100")
	require.NoError(t, err)

	assert.False(t, estimated)
	require.Len(t, quotes, 3)
	assert.Equal(t, freight.ServiceCodePickup, quotes[2].ServiceCode)
}

func TestQuoteShippingEmptyCart(t *testing.T) {
	svc := newTestService(newMockCarts(), &mockQuoter{}, &mockPayments{}, &mockOrders{})
	_, _, err := svc.QuoteShipping(context.Background(), "session-1", "01310100")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestQuoteShippingInvalidCEP(t *testing.T) {
	quoter := &mockQuoter{}
	svc := newTestService(newMockCarts(), quoter, &mockPayments{}, &mockOrders{})

	_, _, err := svc.QuoteShipping(context.Background(), "session-1", "12ab")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, quoter.calls)
}
