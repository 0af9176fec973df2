package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/tapecar-backend/internal/domain/catalog"
)

type mockStorage struct {
	m     sync.RWMutex
	carts map[string]Cart
	saves int
}

func newMockStorage() *mockStorage {
	return &mockStorage{carts: make(map[string]Cart)}
}

func (m *mockStorage) Load(_ context.Context, sessionID string) (*Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	c, ok := m.carts[sessionID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return &c, nil
}

func (m *mockStorage) Save(_ context.Context, c *Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.saves++
	m.carts[c.SessionID] = *c
	return nil
}

func (m *mockStorage) Delete(_ context.Context, sessionID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.carts, sessionID)
	return nil
}

type mockCatalog struct {
	products map[string]catalog.Product
}

func (m *mockCatalog) GetProduct(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func testCatalog() *mockCatalog {
	return &mockCatalog{products: map[string]catalog.Product{
		"tapete-volkswagen-gol": {
			ID: "tapete-volkswagen-gol", Title: "Tapete Gol", Price: 5000,
			WidthCm: 60, HeightCm: 2, LengthCm: 90, WeightKg: 1.2,
			Images: []string{"https://img.example/gol.jpg"},
		},
		"tapete-fiat-uno": {
			ID: "tapete-fiat-uno", Title: "Tapete Uno", Price: 3990,
			WidthCm: 50, HeightCm: 2, LengthCm: 80, WeightKg: 1.0,
		},
	}}
}

const sid = "session-1"

func TestAddSnapshotsProduct(t *testing.T) {
	store := newMockStorage()
	svc := NewService(store, testCatalog())
	ctx := context.Background()

	c, err := svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-volkswagen-gol", Quantity: 1})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)

	item := c.Items[0]
	assert.Equal(t, "Tapete Gol", item.Title)
	assert.Equal(t, int64(5000), item.ListPrice)
	assert.Equal(t, int64(3500), item.UnitPrice) // 30% off, captured at add time
	assert.Equal(t, "https://img.example/gol.jpg", item.Image)
	assert.Equal(t, 1, store.saves) // every mutation persists synchronously
}

func TestAddSameProductIncrementsQuantity(t *testing.T) {
	svc := NewService(newMockStorage(), testCatalog())
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-volkswagen-gol", Quantity: 1})
	require.NoError(t, err)

	c, err := svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-volkswagen-gol", Quantity: 2})
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	svc := NewService(newMockStorage(), testCatalog())
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-volkswagen-gol", Quantity: 1})
	require.NoError(t, err)
	c, err := svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-fiat-uno", Quantity: 1})
	require.NoError(t, err)

	require.Len(t, c.Items, 2)
	assert.Equal(t, "tapete-volkswagen-gol", c.Items[0].ProductID)
	assert.Equal(t, "tapete-fiat-uno", c.Items[1].ProductID)
}

func TestAddUnknownProduct(t *testing.T) {
	svc := NewService(newMockStorage(), testCatalog())

	_, err := svc.Add(context.Background(), sid, &AddItemRequest{ProductID: "tapete-nope", Quantity: 1})
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestRemoveAbsentProductIsNoOp(t *testing.T) {
	store := newMockStorage()
	svc := NewService(store, testCatalog())
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-volkswagen-gol", Quantity: 1})
	require.NoError(t, err)

	c, err := svc.Remove(ctx, sid, "tapete-nope")
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestRemove(t *testing.T) {
	svc := NewService(newMockStorage(), testCatalog())
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-volkswagen-gol", Quantity: 1})
	require.NoError(t, err)

	c, err := svc.Remove(ctx, sid, "tapete-volkswagen-gol")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestSetQuantity(t *testing.T) {
	svc := NewService(newMockStorage(), testCatalog())
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-volkswagen-gol", Quantity: 1})
	require.NoError(t, err)

	c, err := svc.SetQuantity(ctx, sid, "tapete-volkswagen-gol", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	svc := NewService(newMockStorage(), testCatalog())
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-volkswagen-gol", Quantity: 2})
	require.NoError(t, err)

	c, err := svc.SetQuantity(ctx, sid, "tapete-volkswagen-gol", 0)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	_, err = svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-volkswagen-gol", Quantity: 2})
	require.NoError(t, err)
	c, err = svc.SetQuantity(ctx, sid, "tapete-volkswagen-gol", -3)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestClearAndRehydrate(t *testing.T) {
	store := newMockStorage()
	svc := NewService(store, testCatalog())
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-volkswagen-gol", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, sid))

	c, err := svc.Get(ctx, sid)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCalculateTotals(t *testing.T) {
	svc := NewService(newMockStorage(), testCatalog())
	ctx := context.Background()

	_, err := svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-volkswagen-gol", Quantity: 2})
	require.NoError(t, err)
	c, err := svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-fiat-uno", Quantity: 1})
	require.NoError(t, err)

	totals := c.CalculateTotals()
	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, 3, totals.TotalQuantity)
	// 2*3500 + 1*2793 (3990 -> 27.93)
	assert.Equal(t, int64(9793), totals.SubTotal)
}

func TestAggregateDimensions(t *testing.T) {
	svc := NewService(newMockStorage(), testCatalog())
	ctx := context.Background()

	c, err := svc.Add(ctx, sid, &AddItemRequest{ProductID: "tapete-volkswagen-gol", Quantity: 2})
	require.NoError(t, err)

	dims := c.AggregateDimensions()
	assert.InDelta(t, 2.4, dims.WeightKg, 0.001)
	assert.InDelta(t, 120, dims.WidthCm, 0.001)
	assert.InDelta(t, 4, dims.HeightCm, 0.001)
	assert.InDelta(t, 180, dims.LengthCm, 0.001)
}
