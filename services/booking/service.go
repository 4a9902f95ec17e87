package booking

import (
	"errors"
	"fmt"
	"time"

	bookingRepo "tourly/database/repository/booking"
	"tourly/models"
	"tourly/services/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService over the booking repository.
type DefaultBookingService struct {
	Repo   bookingRepo.BookingRepository
	Events events.Publisher
	Logger *zap.Logger

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateBooking validates the request and persists a new booking in
// pending/unpaid.
func (s *DefaultBookingService) CreateBooking(req models.CreateBookingRequest) (*models.Booking, error) {
	if req.TouristID == "" || req.GuideID == "" || req.TourID == "" {
		return nil, fmt.Errorf("touristId, guideId and tourId are required")
	}
	if req.ParticipantCount < 1 {
		return nil, fmt.Errorf("participant count must be at least 1")
	}
	if req.ScheduledAt.Before(s.now()) {
		return nil, fmt.Errorf("scheduled time must be in the future")
	}
	if req.TotalPrice <= 0 {
		return nil, fmt.Errorf("total price must be positive")
	}

	booking := &models.Booking{
		ID:               uuid.New().String(),
		TouristID:        req.TouristID,
		GuideID:          req.GuideID,
		TourID:           req.TourID,
		TourTitle:        req.TourTitle,
		GuideName:        req.GuideName,
		ScheduledAt:      req.ScheduledAt,
		Status:           models.BookingPending,
		PaymentStatus:    models.PaymentUnpaid,
		TotalPrice:       req.TotalPrice,
		Currency:         req.Currency,
		ParticipantCount: req.ParticipantCount,
		Version:          1,
	}

	if err := s.Repo.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.Logger.Info("Booking created",
		zap.String("booking", booking.ID),
		zap.String("tourist", booking.TouristID),
	)
	s.Events.BookingStatusChanged(booking)
	return booking, nil
}

// GetBooking fetches a booking by id.
func (s *DefaultBookingService) GetBooking(id string) (*models.Booking, error) {
	return s.Repo.GetByID(id)
}

// ListByTourist returns a tourist's bookings, newest first.
func (s *DefaultBookingService) ListByTourist(touristID string) ([]models.Booking, error) {
	return s.Repo.GetByTourist(touristID)
}

// Confirm moves a pending booking to confirmed. The booking must be paid
// unless the caller explicitly confirms an offline/cash flow.
func (s *DefaultBookingService) Confirm(bookingID string, allowUnpaid bool) (*models.Booking, error) {
	current, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	next, ok := NextStatus(current.Status, CommandConfirm)
	if !ok {
		return nil, NewInvalidTransition(fmt.Sprintf("cannot confirm booking in status %q", current.Status))
	}
	if current.PaymentStatus != models.PaymentPaid && !allowUnpaid {
		return nil, NewInvalidTransition("booking must be paid before confirmation")
	}

	updated, err := s.Repo.ApplyTransition(bookingID, current.Status, current.Version, bookingRepo.StatusChange{
		NewStatus: next,
	})
	if err != nil {
		return nil, s.mapRepoErr(err, "confirm", bookingID)
	}

	s.Logger.Info("Booking confirmed", zap.String("booking", bookingID))
	s.Events.BookingStatusChanged(updated)
	return updated, nil
}

// Cancel moves a pending or confirmed booking to cancelled, computing the
// refund fraction from the cause and the time remaining until the tour.
func (s *DefaultBookingService) Cancel(bookingID, initiator string, cause CancelCause) (*models.Booking, error) {
	current, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	next, ok := NextStatus(current.Status, CommandCancel)
	if !ok {
		return nil, NewInvalidTransition(fmt.Sprintf("cannot cancel booking in status %q", current.Status))
	}

	if cause == "" {
		cause = CauseVoluntary
	}
	if initiator == "guide" {
		cause = CauseGuideInitiated
	}

	hoursUntil := current.ScheduledAt.Sub(s.now()).Hours()
	fraction := RefundFraction(hoursUntil, cause)

	// A settled payment moves to refunded (the recorded fraction may be
	// zero inside the no-refund window); anything else collapses to its
	// unpaid/failed value so a cancelled booking never reads as paid.
	var payState models.PaymentState
	switch current.PaymentStatus {
	case models.PaymentPaid:
		payState = models.PaymentRefunded
	case models.PaymentFailed:
		payState = models.PaymentFailed
	default:
		payState = models.PaymentUnpaid
	}

	updated, err := s.Repo.ApplyTransition(bookingID, current.Status, current.Version, bookingRepo.StatusChange{
		NewStatus:      next,
		PaymentStatus:  &payState,
		RefundFraction: &fraction,
		CancelCause:    string(cause),
		CancelledBy:    initiator,
	})
	if err != nil {
		return nil, s.mapRepoErr(err, "cancel", bookingID)
	}

	s.Logger.Info("Booking cancelled",
		zap.String("booking", bookingID),
		zap.String("cause", string(cause)),
		zap.Float64("refundFraction", fraction),
	)
	s.Events.BookingStatusChanged(updated)
	return updated, nil
}

// Complete moves a confirmed booking to completed once the tour has taken
// place.
func (s *DefaultBookingService) Complete(bookingID string) (*models.Booking, error) {
	current, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}

	next, ok := NextStatus(current.Status, CommandComplete)
	if !ok {
		return nil, NewInvalidTransition(fmt.Sprintf("cannot complete booking in status %q", current.Status))
	}
	if current.ScheduledAt.After(s.now()) {
		return nil, NewPrematureCompletion("tour has not taken place yet")
	}

	updated, err := s.Repo.ApplyTransition(bookingID, current.Status, current.Version, bookingRepo.StatusChange{
		NewStatus: next,
	})
	if err != nil {
		return nil, s.mapRepoErr(err, "complete", bookingID)
	}

	s.Logger.Info("Booking completed", zap.String("booking", bookingID))
	s.Events.BookingStatusChanged(updated)
	return updated, nil
}

// MarkPaid reflects a succeeded payment onto the booking. A charge that
// lands after the booking was cancelled records refunded: the provider took
// the money, and a cancelled booking must never read paid.
func (s *DefaultBookingService) MarkPaid(bookingID string) (*models.Booking, error) {
	current, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if current.Status == models.BookingCancelled {
		return s.refundLateCharge(bookingID)
	}

	updated, err := s.Repo.SetPaymentState(bookingID,
		[]models.PaymentState{models.PaymentUnpaid, models.PaymentPending, models.PaymentFailed},
		models.PaymentPaid,
	)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			// Already paid, or a cancel landed between the read and the
			// update and the repository refused to flip a cancelled booking
			// to paid.
			current, err = s.Repo.GetByID(bookingID)
			if err != nil {
				return nil, err
			}
			if current.Status == models.BookingCancelled && current.PaymentStatus != models.PaymentRefunded {
				return s.refundLateCharge(bookingID)
			}
			return current, nil
		}
		return nil, err
	}
	s.Logger.Info("Booking marked paid", zap.String("booking", bookingID))
	return updated, nil
}

func (s *DefaultBookingService) refundLateCharge(bookingID string) (*models.Booking, error) {
	updated, err := s.Repo.SetPaymentState(bookingID,
		[]models.PaymentState{models.PaymentUnpaid, models.PaymentPending, models.PaymentFailed},
		models.PaymentRefunded,
	)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			return s.Repo.GetByID(bookingID)
		}
		return nil, err
	}
	s.Logger.Warn("Charge captured after cancellation, recorded as refunded",
		zap.String("booking", bookingID),
	)
	return updated, nil
}

// MarkPaymentPending reflects an in-flight payment onto the booking.
func (s *DefaultBookingService) MarkPaymentPending(bookingID string) (*models.Booking, error) {
	updated, err := s.Repo.SetPaymentState(bookingID,
		[]models.PaymentState{models.PaymentUnpaid, models.PaymentFailed},
		models.PaymentPending,
	)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			return s.Repo.GetByID(bookingID)
		}
		return nil, err
	}
	return updated, nil
}

// MarkPaymentFailed reflects a declined payment onto the booking.
func (s *DefaultBookingService) MarkPaymentFailed(bookingID string) (*models.Booking, error) {
	updated, err := s.Repo.SetPaymentState(bookingID,
		[]models.PaymentState{models.PaymentUnpaid, models.PaymentPending},
		models.PaymentFailed,
	)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrVersionConflict) {
			return s.Repo.GetByID(bookingID)
		}
		return nil, err
	}
	s.Logger.Warn("Booking payment failed", zap.String("booking", bookingID))
	return updated, nil
}

func (s *DefaultBookingService) mapRepoErr(err error, op, bookingID string) error {
	if errors.Is(err, bookingRepo.ErrVersionConflict) {
		return NewConflict(fmt.Sprintf("booking %s changed while applying %s; re-read and retry", bookingID, op))
	}
	return err
}
