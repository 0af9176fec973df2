// internal/domain/freight/service.go
package freight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"
	"github.com/your-org/tapecar-backend/internal/config"
)

// Service codes understood by the checkout flow. PAC and SEDEX come back from
// the rate provider; pickup is synthesized locally at zero cost.
const (
	ServiceCodePAC    = "04510"
	ServiceCodeSEDEX  = "04014"
	ServiceCodePickup = "retirada"
)

// Quote represents one shipping option returned by the rate provider.
// Quotes are ephemeral: fetched fresh per checkout attempt and never stored.
type Quote struct {
	ServiceCode  string `json:"codigo"`
	ServiceName  string `json:"nome"`
	Price        string `json:"valor"` // localized BRL string
	DeadlineDays string `json:"prazo"`
}

// QuoteRequest is the outbound payload for the rate provider.
type QuoteRequest struct {
	CepOrigem  string  `json:"cepOrigem"`
	CepDestino string  `json:"cepDestino"`
	Weight     float64 `json:"weight"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Length     float64 `json:"length"`
}

type quoteResponse struct {
	Servicos []Quote `json:"servicos"`
}

// QuoteService requests shipping rates from the external rate API. Provider
// or transport failure falls back to estimated rates so that shipping never
// blocks a sale.
type QuoteService struct {
	config     *config.Config
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]Quote]
	logger     *logrus.Logger
}

// NewQuoteService creates a new freight quote service
func NewQuoteService(cfg *config.Config, logger *logrus.Logger) *QuoteService {
	settings := gobreaker.Settings{
		Name:    cfg.External.Freight.BreakerName,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}

	return &QuoteService{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.External.Freight.Timeout},
		breaker:    gobreaker.NewCircuitBreaker[[]Quote](settings),
		logger:     logger,
	}
}

// Quote fetches shipping options for a destination postal code and aggregated
// shipment dimensions. The second return value reports whether the quotes are
// estimated fallback rates rather than live provider rates.
func (s *QuoteService) Quote(ctx context.Context, destinationCEP string, dims Dimensions) ([]Quote, bool) {
	quotes, err := s.breaker.Execute(func() ([]Quote, error) {
		return s.fetchQuotes(ctx, destinationCEP, dims)
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"destination": destinationCEP,
			"error":       err.Error(),
		}).Warn("Freight rate request failed, using estimated rates")
		return EstimatedQuotes(), true
	}

	if len(quotes) == 0 {
		return EstimatedQuotes(), true
	}

	return quotes, false
}

func (s *QuoteService) fetchQuotes(ctx context.Context, destinationCEP string, dims Dimensions) ([]Quote, error) {
	if s.config.External.Freight.BaseURL == "" {
		return nil, fmt.Errorf("freight rate API not configured")
	}

	payload := QuoteRequest{
		CepOrigem:  s.config.External.Freight.OriginCEP,
		CepDestino: destinationCEP,
		Weight:     ShipmentWeight(dims),
		Width:      dims.WidthCm,
		Height:     dims.HeightCm,
		Length:     dims.LengthCm,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quote request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.config.External.Freight.BaseURL+"/rates", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create quote request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("freight rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("freight rate API returned status %d: %s", resp.StatusCode, string(data))
	}

	var parsed quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}

	return parsed.Servicos, nil
}

// EstimatedQuotes returns the hardcoded fallback rates used when the rate
// provider is unreachable.
func EstimatedQuotes() []Quote {
	return []Quote{
		{
			ServiceCode:  ServiceCodePAC,
			ServiceName:  "PAC (estimado)",
			Price:        "R$24,90",
			DeadlineDays: "8",
		},
		{
			ServiceCode:  ServiceCodeSEDEX,
			ServiceName:  "SEDEX (estimado)",
			Price:        "R$39,90",
			DeadlineDays: "3",
		},
	}
}

// PickupQuote returns the zero-cost in-store pickup option.
func PickupQuote() Quote {
	return Quote{
		ServiceCode:  ServiceCodePickup,
		ServiceName:  "Retirada na loja",
		Price:        "R$0,00",
		DeadlineDays: "0",
	}
}

// FindByServiceCode selects a quote by exact service-code match.
func FindByServiceCode(quotes []Quote, code string) (Quote, bool) {
	for _, q := range quotes {
		if q.ServiceCode == code {
			return q, true
		}
	}
	return Quote{}, false
}
