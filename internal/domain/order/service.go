// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrInvalidStatus is returned when a status transition names an
// unknown status.
var ErrInvalidStatus = fmt.Errorf("invalid order status")

// Service handles order business logic
type Service struct {
	repo   Repository
	logger *logrus.Logger
}

// NewService creates a new order service
func NewService(repo Repository, logger *logrus.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create records a new pending order. The order number is assigned
// here if the caller did not set one.
func (s *Service) Create(ctx context.Context, o *Order) error {
	now := time.Now().UTC()
	if o.Number == "" {
		o.Number = GenerateNumber()
	}
	o.Status = StatusPending
	o.CreatedAt = now
	o.UpdatedAt = now

	if err := s.repo.Insert(ctx, o); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number":       o.Number,
		"payment_session_id": o.PaymentSessionID,
		"total":              o.Total,
	}).Info("Order created")

	return nil
}

// GetOrder retrieves a single order by number.
func (s *Service) GetOrder(ctx context.Context, number string) (*Order, error) {
	return s.repo.GetByNumber(ctx, number)
}

// ListOrders returns all orders, most recent first.
func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// UpdateStatus transitions an order to the given status.
func (s *Service) UpdateStatus(ctx context.Context, number, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, number, status); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": number,
		"status":       status,
	}).Info("Order status updated")

	return nil
}

// MarkPaid promotes the pending order tied to a payment session to
// paid. A session with no pending order (unknown, or already
// processed) yields ErrOrderNotFound; the caller decides whether that
// is an error or a replay.
func (s *Service) MarkPaid(ctx context.Context, sessionID string) (*Order, error) {
	o, err := s.repo.MarkPaidBySession(ctx, sessionID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_number":       o.Number,
		"payment_session_id": sessionID,
	}).Info("Order marked as paid")

	return o, nil
}
