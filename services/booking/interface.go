package booking

import "tourly/models"

// BookingService owns the booking entity's lifecycle: creation and every
// status transition. Commands either apply fully or fail with a
// TransitionError, never leaving a partial mutation behind.
type BookingService interface {
	CreateBooking(req models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(id string) (*models.Booking, error)
	ListByTourist(touristID string) ([]models.Booking, error)

	Confirm(bookingID string, allowUnpaid bool) (*models.Booking, error)
	Cancel(bookingID, initiator string, cause CancelCause) (*models.Booking, error)
	Complete(bookingID string) (*models.Booking, error)

	// MarkPaid reflects a settled payment onto the booking. It only touches
	// the payment status; confirmation stays a separate explicit step so a
	// paid-but-unconfirmed booking is representable.
	MarkPaid(bookingID string) (*models.Booking, error)
	// MarkPaymentPending and MarkPaymentFailed mirror the other settlement
	// outcomes onto the booking.
	MarkPaymentPending(bookingID string) (*models.Booking, error)
	MarkPaymentFailed(bookingID string) (*models.Booking, error)
}
