package paymentRepo

import (
	"errors"
	"time"

	"tourly/models"
)

// ErrNotFound is returned when no payment matches the query.
var ErrNotFound = errors.New("payment not found")

// ErrAlreadySettled is returned when a settlement update matched no document
// because the payment already reached a terminal status. Resolution is
// monotonic: pending moves to terminal, never backwards.
var ErrAlreadySettled = errors.New("payment already settled")

// ErrDuplicateActive is returned when an insert would create a second active
// payment for the same booking. The uniqueness is enforced by the store, not
// by a prior read, so concurrent creators cannot both win.
var ErrDuplicateActive = errors.New("an active payment for this booking already exists")

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id string) (*models.Payment, error)

	// GetActiveByBooking returns the payment currently in flight for a
	// booking (initiated or pending confirmation), or ErrNotFound.
	GetActiveByBooking(bookingID string) (*models.Payment, error)

	// GetLatestByBooking returns the most recent payment attempt for a
	// booking regardless of status.
	GetLatestByBooking(bookingID string) (*models.Payment, error)

	// Settle moves an in-flight payment to a terminal status.
	Settle(id string, status models.PaymentStatus, providerTxID, failureReason string) (*models.Payment, error)

	// ListUnsettledBefore returns payments still in flight (initiated or
	// pending confirmation) created before the cutoff, for the periodic
	// reconciliation sweep.
	ListUnsettledBefore(olderThan time.Time, limit int64) ([]models.Payment, error)
}
