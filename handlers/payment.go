package handlers

import (
	"errors"
	"net/http"

	bookingRepo "tourly/database/repository/booking"
	"tourly/middleware"
	"tourly/models"
	"tourly/services/payment"
	"tourly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler serves the payment creation and reconciliation endpoints.
type PaymentHandler struct {
	Gateway    payment.PaymentGateway
	Reconciler *payment.StatusReconciler
	Logger     *zap.Logger
}

// NewPaymentHandler creates a PaymentHandler.
func NewPaymentHandler(gw payment.PaymentGateway, rec *payment.StatusReconciler, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Gateway: gw, Reconciler: rec, Logger: logger}
}

// ListMethods handles GET /payments/methods.
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"methods": h.Gateway.Methods()})
}

// CreatePayment handles POST /payments.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	p, err := h.Gateway.CreatePayment(req)
	if err != nil {
		h.writePaymentError(c, p, err)
		return
	}

	middleware.RecordPaymentProcessed(string(p.Status))
	c.JSON(http.StatusCreated, p)
}

// MomoCreate handles POST /payments/momo/create, the wallet redirect flow.
func (h *PaymentHandler) MomoCreate(c *gin.Context) {
	var req models.MomoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	p, err := h.Gateway.CreatePayment(models.CreatePaymentRequest{
		BookingID: req.BookingID,
		Method:    "momo",
		Amount:    req.Amount,
		Currency:  req.Currency,
		Phone:     req.Phone,
	})
	if err != nil {
		h.writePaymentError(c, p, err)
		return
	}

	middleware.RecordPaymentProcessed(string(p.Status))
	c.JSON(http.StatusCreated, models.MomoCreateResponse{
		BookingID: p.BookingID,
		OrderID:   p.ProviderTransactionID,
		PayURL:    p.PayURL,
	})
}

// PaymentStatus handles GET /payments/status/:bookingId, resolving the
// payment's true state against the provider when it is still pending.
func (h *PaymentHandler) PaymentStatus(c *gin.Context) {
	res, err := h.Reconciler.Resolve(c.Param("bookingId"))
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to resolve payment", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": res.Status, "booking": res.Booking})
}

// writePaymentError maps the payment error taxonomy onto HTTP statuses:
// field errors are client-fixable, a decline is terminal, and provider
// trouble asks the caller to retry without settling anything.
func (h *PaymentHandler) writePaymentError(c *gin.Context, p *models.Payment, err error) {
	if ve, ok := payment.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "validation failed",
			"errors":  ve,
		})
		return
	}

	if payment.IsDeclined(err) {
		middleware.RecordPaymentProcessed(string(models.PaymentStatusFailed))
		body := gin.H{"message": "payment declined", "details": err.Error()}
		if p != nil {
			body["payment"] = p
		}
		c.JSON(http.StatusPaymentRequired, body)
		return
	}

	if errors.Is(err, payment.ErrProviderTimeout) || errors.Is(err, payment.ErrProviderUnavailable) {
		body := gin.H{"message": "payment provider unavailable, please try again"}
		if p != nil {
			body["payment"] = p
		}
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	if errors.Is(err, bookingRepo.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "booking not found", "")
		return
	}

	utils.JSONError(c, http.StatusInternalServerError, "failed to create payment", err.Error())
}
