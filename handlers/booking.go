package handlers

import (
	"errors"
	"net/http"

	bookingRepo "tourly/database/repository/booking"
	"tourly/models"
	"tourly/services/booking"
	"tourly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// ListBookings handles GET /bookings?user_id={id}.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	touristID := c.Query("user_id")
	if touristID == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing user_id", "user_id query parameter is required")
		return
	}

	bookings, err := h.Service.ListByTourist(touristID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings", err.Error())
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	created, err := h.Service.CreateBooking(req)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "failed to create booking", err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bk, err := h.Service.GetBooking(c.Param("id"))
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, bk)
}

// UpdateBookingStatus handles PUT /bookings/:id/status, dispatching the
// requested status to the matching lifecycle command.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	bookingID := c.Param("id")

	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	var (
		updated *models.Booking
		err     error
	)
	switch req.Status {
	case models.BookingConfirmed:
		updated, err = h.Service.Confirm(bookingID, req.ConfirmUnpaid)
	case models.BookingCancelled:
		updated, err = h.Service.Cancel(bookingID, req.Initiator, booking.CancelCause(req.Cause))
	case models.BookingCompleted:
		updated, err = h.Service.Complete(bookingID)
	default:
		utils.JSONError(c, http.StatusBadRequest, "unsupported status", "status must be confirmed, cancelled or completed")
		return
	}

	if err != nil {
		h.writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *BookingHandler) writeTransitionError(c *gin.Context, err error) {
	if errors.Is(err, bookingRepo.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "booking not found", "")
		return
	}

	switch booking.ErrCode(err) {
	case booking.CodeInvalidTransition, booking.CodePrematureCompletion:
		utils.JSONError(c, http.StatusConflict, "invalid transition", err.Error())
	case booking.CodeConflict:
		utils.JSONError(c, http.StatusConflict, "booking changed concurrently", "re-read the booking and retry")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "failed to update booking", err.Error())
	}
}
