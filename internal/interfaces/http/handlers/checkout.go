// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/tapecar-backend/internal/domain/checkout"
)

// CheckoutHandler handles the checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// QuoteFreight handles POST /checkout/freight
func (h *CheckoutHandler) QuoteFreight(c *gin.Context) {
	sessionID, err := c.Cookie(CartSessionCookie)
	if err != nil || sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
		return
	}

	var req struct {
		CEP string `json:"cep" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	quotes, estimated, err := h.checkoutService.QuoteShipping(c.Request.Context(), sessionID, req.CEP)
	if err != nil {
		h.writeCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Freight quoted successfully",
		"data":      gin.H{"servicos": quotes},
		"estimated": estimated,
	})
}

// Submit handles POST /checkout
func (h *CheckoutHandler) Submit(c *gin.Context) {
	sessionID, err := c.Cookie(CartSessionCookie)
	if err != nil || sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
		return
	}

	var sub checkout.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.checkoutService.Submit(c.Request.Context(), sessionID, &sub)
	if err != nil {
		h.writeCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout submitted successfully",
		"data":    result,
	})
}

func (h *CheckoutHandler) writeCheckoutError(c *gin.Context, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
	case errors.Is(err, checkout.ErrShippingUnavailable):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Selected shipping option is no longer available",
		})
	default:
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Checkout could not be completed, please try again",
		})
	}
}
