// internal/interfaces/http/handlers/webhook.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/tapecar-backend/internal/domain/freight"
	"github.com/your-org/tapecar-backend/internal/domain/order"
	"github.com/your-org/tapecar-backend/internal/domain/payment"
	"github.com/your-org/tapecar-backend/internal/domain/pricing"
	"github.com/your-org/tapecar-backend/internal/pkg/email"
)

// WebhookHandler handles payment provider webhooks
type WebhookHandler struct {
	verifier     *payment.WebhookVerifier
	orderService *order.Service
	emailService *email.EmailService
	logger       *logrus.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(verifier *payment.WebhookVerifier, orderService *order.Service, emailService *email.EmailService, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier:     verifier,
		orderService: orderService,
		emailService: emailService,
		logger:       logger,
	}
}

// HandlePaymentWebhook handles POST /webhooks/payment. The signature
// is checked against the raw body before anything is decoded.
func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read request body",
		})
		return
	}

	event, err := h.verifier.Verify(body, c.GetHeader(payment.SignatureHeader))
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid webhook signature",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Malformed webhook event",
		})
		return
	}

	if event.Type != payment.EventCheckoutCompleted {
		// Acknowledge events we do not act on so the provider stops
		// retrying them.
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
		return
	}

	o, err := h.orderService.MarkPaid(c.Request.Context(), event.Data.SessionID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			// Unknown session or a replayed webhook. Either way there
			// is nothing left to do.
			h.logger.WithField("payment_session_id", event.Data.SessionID).
				Warn("Webhook for session with no pending order")
			c.JSON(http.StatusOK, gin.H{"message": "No pending order for session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process webhook",
		})
		return
	}

	// Email delivery must not delay the webhook response; failures are
	// logged and the order stays paid.
	go h.sendOrderEmails(o)

	c.JSON(http.StatusOK, gin.H{
		"message": "Order marked as paid",
		"data":    gin.H{"order_number": o.Number},
	})
}

func (h *WebhookHandler) sendOrderEmails(o *order.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	data := orderEmailData(o)

	if err := h.emailService.SendOrderConfirmation(ctx, data); err != nil {
		h.logger.WithError(err).WithField("order_number", o.Number).
			Error("Failed to send order confirmation email")
	}
	if err := h.emailService.SendAdminOrderNotification(ctx, data); err != nil {
		h.logger.WithError(err).WithField("order_number", o.Number).
			Error("Failed to send admin order notification")
	}
}

func orderEmailData(o *order.Order) email.OrderEmailData {
	items := make([]email.OrderItemData, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, email.OrderItemData{
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: pricing.FormatMinorUnits(it.UnitPrice),
			Year:      it.Year,
		})
	}

	addr := o.Customer.Address
	address := fmt.Sprintf("%s, %s", addr.Street, addr.Number)
	if addr.Complement != "" {
		address += " - " + addr.Complement
	}
	address += fmt.Sprintf("\n%s - %s/%s\nCEP %s", addr.District, addr.City, addr.State, addr.CEP)

	return email.OrderEmailData{
		OrderNumber:  o.Number,
		CustomerName: o.Customer.Name,
		CustomerCPF:  o.Customer.CPF,
		Email:        o.Customer.Email,
		Phone:        o.Customer.Phone,
		Items:        items,
		Subtotal:     o.FormattedSubtotal(),
		ShippingName: o.Shipping.ServiceName,
		ShippingCost: o.FormattedShipping(),
		Total:        o.FormattedTotal(),
		Address:      address,
		Pickup:       o.Shipping.ServiceCode == freight.ServiceCodePickup,
	}
}
