package freight

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/tapecar-backend/internal/config"
)

func newTestService(t *testing.T, baseURL string) *QuoteService {
	t.Helper()
	cfg := &config.Config{}
	cfg.External.Freight.BaseURL = baseURL
	cfg.External.Freight.Timeout = 2 * time.Second
	cfg.External.Freight.BreakerName = "freight-test"

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewQuoteService(cfg, logger)
}

func TestQuoteReturnsProviderRates(t *testing.T) {
	var received QuoteRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rates", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"servicos": []map[string]string{
				{"codigo": "04510", "nome": "PAC", "valor": "R$22,50", "prazo": "9"},
				{"codigo": "04014", "nome": "SEDEX", "valor": "R$41,20", "prazo": "2"},
			},
		})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	dims := Dimensions{WeightKg: 1.0, WidthCm: 60, HeightCm: 2, LengthCm: 90}

	quotes, estimated := svc.Quote(context.Background(), "04538132", dims)
	assert.False(t, estimated)
	require.Len(t, quotes, 2)
	assert.Equal(t, "04510", quotes[0].ServiceCode)
	assert.Equal(t, "R$22,50", quotes[0].Price)

	// Chargeable weight is shipped, not the raw actual weight
	assert.Equal(t, "04538132", received.CepDestino)
	assert.InDelta(t, 1.8, received.Weight, 0.001)
	assert.InDelta(t, 60, received.Width, 0.001)
}

func TestQuoteFallsBackOnProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	quotes, estimated := svc.Quote(context.Background(), "04538132", Dimensions{WeightKg: 1})
	assert.True(t, estimated)
	require.Len(t, quotes, 2)
	assert.Equal(t, ServiceCodePAC, quotes[0].ServiceCode)
	assert.Equal(t, ServiceCodeSEDEX, quotes[1].ServiceCode)
}

func TestQuoteFallsBackWhenUnconfigured(t *testing.T) {
	svc := newTestService(t, "")

	quotes, estimated := svc.Quote(context.Background(), "04538132", Dimensions{WeightKg: 1})
	assert.True(t, estimated)
	assert.Len(t, quotes, 2)
}

func TestQuoteFallsBackOnEmptyServiceList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"servicos": []interface{}{}})
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)

	quotes, estimated := svc.Quote(context.Background(), "04538132", Dimensions{WeightKg: 1})
	assert.True(t, estimated)
	assert.Len(t, quotes, 2)
}

func TestFindByServiceCode(t *testing.T) {
	quotes := EstimatedQuotes()

	q, ok := FindByServiceCode(quotes, ServiceCodeSEDEX)
	require.True(t, ok)
	assert.Equal(t, "R$39,90", q.Price)

	_, ok = FindByServiceCode(quotes, "99999")
	assert.False(t, ok)
}

func TestPickupQuoteIsFree(t *testing.T) {
	q := PickupQuote()
	assert.Equal(t, ServiceCodePickup, q.ServiceCode)
	assert.Equal(t, "R$0,00", q.Price)
}
