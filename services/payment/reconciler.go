package payment

import (
	"context"
	"errors"
	"time"

	paymentRepo "tourly/database/repository/payment"
	"tourly/models"
	"tourly/services/booking"
	"tourly/services/events"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const resolvedKeyPrefix = "payment:resolved:"

// Resolution is the reconciler's answer for a booking's payment state.
type Resolution struct {
	Status  models.PaymentState `json:"status"`
	Booking *models.Booking     `json:"booking"`
}

// StatusReconciler resolves the true state of an initiated payment against
// the provider. Resolution is monotonic and idempotent: once a terminal
// outcome is recorded, further calls return it without provider I/O.
type StatusReconciler struct {
	Repo      paymentRepo.PaymentRepository
	Bookings  booking.BookingService
	Providers map[string]Provider
	Cache     *redis.Client
	Events    events.Publisher
	Logger    *zap.Logger
	Timeout   time.Duration
}

// Resolve reports the payment state for a booking. Ambiguous provider
// responses yield pending; callers retry with backoff rather than assume an
// outcome.
func (r *StatusReconciler) Resolve(bookingID string) (*Resolution, error) {
	if state, ok := r.cachedTerminal(bookingID); ok {
		bk, err := r.Bookings.GetBooking(bookingID)
		if err != nil {
			return nil, err
		}
		return &Resolution{Status: state, Booking: bk}, nil
	}

	p, err := r.Repo.GetLatestByBooking(bookingID)
	if errors.Is(err, paymentRepo.ErrNotFound) {
		return r.fromBooking(bookingID)
	}
	if err != nil {
		return nil, err
	}

	if p.Terminal() {
		bk, err := r.Bookings.GetBooking(bookingID)
		if err != nil {
			return nil, err
		}
		state := models.PaymentFailed
		if p.Status == models.PaymentSucceeded {
			state = models.PaymentPaid
			if bk.PaymentStatus == models.PaymentRefunded {
				state = models.PaymentRefunded
			}
		}
		r.cacheTerminal(bookingID, state)
		return &Resolution{Status: state, Booking: bk}, nil
	}

	// An initiated direct capture holds no provider order to query; only a
	// redirect order can be resolved remotely.
	if p.Status != models.PaymentPendingConfirmation || p.ProviderTransactionID == "" {
		return r.pending(bookingID)
	}

	provider, ok := r.Providers[p.Method]
	if !ok {
		return r.pending(bookingID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()

	status, err := provider.QueryOrder(ctx, p.ProviderTransactionID)
	if err != nil {
		// Timeout or network trouble: report pending, never guess.
		r.Logger.Warn("provider query inconclusive",
			zap.String("booking", bookingID),
			zap.Error(err),
		)
		return r.pending(bookingID)
	}

	switch status {
	case OrderPaid:
		return r.settle(bookingID, p.ID, models.PaymentSucceeded, "")
	case OrderFailed:
		return r.settle(bookingID, p.ID, models.PaymentStatusFailed, "rejected by provider")
	default:
		return r.pending(bookingID)
	}
}

// Sweep re-resolves in-flight payments created before the cutoff. Redirect
// orders are queried at the provider; a direct capture whose outcome was
// never confirmed holds no order to query, so it expires to failed and the
// caller is free to retry. The Stripe idempotency key on the original
// attempt prevents an expired capture from double-charging on retry.
func (r *StatusReconciler) Sweep(olderThan time.Time, limit int64) error {
	stuck, err := r.Repo.ListUnsettledBefore(olderThan, limit)
	if err != nil {
		return err
	}

	for _, p := range stuck {
		switch p.Status {
		case models.PaymentPendingConfirmation:
			if _, err := r.Resolve(p.BookingID); err != nil {
				r.Logger.Warn("sweep failed to resolve payment",
					zap.String("booking", p.BookingID),
					zap.Error(err),
				)
			}
		case models.PaymentInitiated:
			if _, err := r.settle(p.BookingID, p.ID, models.PaymentStatusFailed, "capture outcome never confirmed"); err != nil {
				r.Logger.Warn("sweep failed to expire payment",
					zap.String("payment", p.ID),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

func (r *StatusReconciler) settle(bookingID, paymentID string, status models.PaymentStatus, reason string) (*Resolution, error) {
	settled, err := r.Repo.Settle(paymentID, status, "", reason)
	if errors.Is(err, paymentRepo.ErrAlreadySettled) {
		// A concurrent resolve won the race; read its outcome.
		settled, err = r.Repo.GetByID(paymentID)
	}
	if err != nil {
		return nil, err
	}

	var state models.PaymentState
	var bk *models.Booking
	if settled.Status == models.PaymentSucceeded {
		bk, err = r.Bookings.MarkPaid(bookingID)
		if err != nil {
			return nil, err
		}
		// Paid, unless the booking was cancelled in the meantime and the
		// late charge was recorded as refunded.
		state = bk.PaymentStatus
	} else {
		state = models.PaymentFailed
		bk, err = r.Bookings.MarkPaymentFailed(bookingID)
		if err != nil {
			return nil, err
		}
	}

	r.cacheTerminal(bookingID, state)
	r.Events.PaymentSettled(settled)

	r.Logger.Info("Payment resolved",
		zap.String("booking", bookingID),
		zap.String("status", string(state)),
	)
	return &Resolution{Status: state, Booking: bk}, nil
}

func (r *StatusReconciler) pending(bookingID string) (*Resolution, error) {
	bk, err := r.Bookings.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}
	return &Resolution{Status: models.PaymentPending, Booking: bk}, nil
}

func (r *StatusReconciler) fromBooking(bookingID string) (*Resolution, error) {
	bk, err := r.Bookings.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}
	switch bk.PaymentStatus {
	case models.PaymentPaid:
		return &Resolution{Status: models.PaymentPaid, Booking: bk}, nil
	case models.PaymentRefunded:
		return &Resolution{Status: models.PaymentRefunded, Booking: bk}, nil
	case models.PaymentFailed:
		return &Resolution{Status: models.PaymentFailed, Booking: bk}, nil
	default:
		return &Resolution{Status: models.PaymentPending, Booking: bk}, nil
	}
}

func (r *StatusReconciler) cachedTerminal(bookingID string) (models.PaymentState, bool) {
	if r.Cache == nil {
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	val, err := r.Cache.Get(ctx, resolvedKeyPrefix+bookingID).Result()
	if err != nil {
		return "", false
	}
	state := models.PaymentState(val)
	if state == models.PaymentPaid || state == models.PaymentFailed || state == models.PaymentRefunded {
		return state, true
	}
	return "", false
}

func (r *StatusReconciler) cacheTerminal(bookingID string, state models.PaymentState) {
	if r.Cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.Cache.Set(ctx, resolvedKeyPrefix+bookingID, string(state), 24*time.Hour).Err(); err != nil {
		r.Logger.Warn("failed to cache resolved payment", zap.Error(err))
	}
}
