package bookingRepo

import (
	"errors"
	"time"

	"tourly/models"
)

// ErrNotFound is returned when no booking matches the given id.
var ErrNotFound = errors.New("booking not found")

// ErrVersionConflict is returned when a conditional status update matched no
// document because the stored status or version no longer equals the value
// the caller read. The caller should re-read and retry.
var ErrVersionConflict = errors.New("booking status changed concurrently")

// StatusChange carries the fields a single transition is allowed to touch.
type StatusChange struct {
	NewStatus      models.BookingStatus
	PaymentStatus  *models.PaymentState
	RefundFraction *float64
	CancelCause    string
	CancelledBy    string
}

// TouristBookingStats is the aggregate over a tourist's bookings computed
// server-side, so the stats endpoint never loads full history into
// application code.
type TouristBookingStats struct {
	TotalBookings int     `bson:"totalBookings"`
	Completed     int     `bson:"completed"`
	ConfirmedPast int     `bson:"confirmedPast"`
	Upcoming      int     `bson:"upcoming"`
	TotalSpent    float64 `bson:"totalSpent"`
	MonthlySpent  float64 `bson:"monthlySpent"`
}

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	GetByTourist(touristID string) ([]models.Booking, error)

	// ApplyTransition atomically applies a status change conditioned on the
	// previously read status and version; mismatch yields ErrVersionConflict.
	ApplyTransition(id string, expectedStatus models.BookingStatus, expectedVersion int, change StatusChange) (*models.Booking, error)

	// SetPaymentState flips the booking's payment status without touching
	// the lifecycle status. Only the listed pre-states are accepted so that
	// settlement never moves backwards.
	SetPaymentState(id string, from []models.PaymentState, to models.PaymentState) (*models.Booking, error)

	AggregateTouristStats(touristID string, now time.Time) (*TouristBookingStats, error)
}
