package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	paymentRepo "tourly/database/repository/payment"
	"tourly/models"
	"tourly/services/booking"
	"tourly/services/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentGateway validates payment requests, prices the method's service
// fee, and submits the charge to the matching provider.
type PaymentGateway interface {
	Methods() []models.PaymentMethod
	CreatePayment(req models.CreatePaymentRequest) (*models.Payment, error)
}

// DefaultPaymentGateway implements PaymentGateway.
type DefaultPaymentGateway struct {
	Registry  *MethodRegistry
	Repo      paymentRepo.PaymentRepository
	Bookings  booking.BookingService
	Providers map[string]Provider
	Events    events.Publisher
	Logger    *zap.Logger
	Timeout   time.Duration

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (g *DefaultPaymentGateway) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Methods lists the registered payment methods.
func (g *DefaultPaymentGateway) Methods() []models.PaymentMethod {
	return g.Registry.List()
}

// CreatePayment validates the request fully, then creates and submits a
// payment. While a payment for the booking is already in flight the existing
// record is returned instead of creating a second one. A declined capture
// returns the settled payment together with a *DeclinedError.
func (g *DefaultPaymentGateway) CreatePayment(req models.CreatePaymentRequest) (*models.Payment, error) {
	errs := ValidateRequest(req, g.now())

	method, known := g.Registry.Get(req.Method)
	if !known {
		errs = append(errs, ValidationError{Field: "method", Reason: "unsupported payment method"})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	bk, err := g.Bookings.GetBooking(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("booking lookup failed: %w", err)
	}
	if bk.PaymentStatus == models.PaymentPaid {
		return nil, ValidationErrors{{Field: "bookingId", Reason: "booking is already paid"}}
	}

	// Idempotency: one active payment per booking.
	if existing, err := g.Repo.GetActiveByBooking(req.BookingID); err == nil {
		g.Logger.Info("Returning in-flight payment",
			zap.String("booking", req.BookingID),
			zap.String("payment", existing.ID),
		)
		return existing, nil
	} else if !errors.Is(err, paymentRepo.ErrNotFound) {
		return nil, err
	}

	provider, ok := g.Providers[req.Method]
	if !ok {
		return nil, ValidationErrors{{Field: "method", Reason: "payment method not available"}}
	}

	fee, _, err := g.Registry.Quote(req.Method, req.Amount)
	if err != nil {
		return nil, err
	}

	p := &models.Payment{
		ID:        uuid.New().String(),
		BookingID: req.BookingID,
		Method:    req.Method,
		Amount:    req.Amount,
		Currency:  req.Currency,
		FeeAmount: fee,
		Status:    models.PaymentInitiated,
	}

	if method.Redirect {
		return g.createRedirect(provider, p)
	}
	return g.capture(provider, p, req.Card)
}

// createRedirect registers the order with the provider first; the payment
// record is only written once an order exists, so creation is all-or-nothing.
func (g *DefaultPaymentGateway) createRedirect(provider Provider, p *models.Payment) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()

	order, err := provider.CreateOrder(ctx, p)
	if err != nil {
		return nil, err
	}

	p.Status = models.PaymentPendingConfirmation
	p.ProviderTransactionID = order.OrderID
	p.PayURL = order.PayURL

	if err := g.Repo.Create(p); err != nil {
		if errors.Is(err, paymentRepo.ErrDuplicateActive) {
			return g.activePayment(p.BookingID)
		}
		return nil, err
	}
	if _, err := g.Bookings.MarkPaymentPending(p.BookingID); err != nil {
		g.Logger.Error("failed to mark booking payment pending", zap.Error(err))
	}

	g.Logger.Info("Redirect payment created",
		zap.String("booking", p.BookingID),
		zap.String("order", order.OrderID),
	)
	return p, nil
}

// activePayment returns the in-flight payment that won a concurrent create.
func (g *DefaultPaymentGateway) activePayment(bookingID string) (*models.Payment, error) {
	existing, err := g.Repo.GetActiveByBooking(bookingID)
	if err != nil {
		return nil, ErrDuplicatePayment
	}
	g.Logger.Info("Concurrent payment creation lost the insert race",
		zap.String("booking", bookingID),
		zap.String("payment", existing.ID),
	)
	return existing, nil
}

// capture writes the payment, then attempts an immediate charge. Timeouts
// leave the payment in flight for the reconciler; only an explicit provider
// outcome settles it.
func (g *DefaultPaymentGateway) capture(provider Provider, p *models.Payment, card *models.CardDetails) (*models.Payment, error) {
	if err := g.Repo.Create(p); err != nil {
		if errors.Is(err, paymentRepo.ErrDuplicateActive) {
			return g.activePayment(p.BookingID)
		}
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.Timeout)
	defer cancel()

	result, err := provider.Capture(ctx, p, card)
	if err != nil {
		var declined *DeclinedError
		if errors.As(err, &declined) {
			settled, settleErr := g.Repo.Settle(p.ID, models.PaymentStatusFailed, "", declined.Reason)
			if settleErr != nil {
				return nil, settleErr
			}
			if _, err := g.Bookings.MarkPaymentFailed(p.BookingID); err != nil {
				g.Logger.Error("failed to mark booking payment failed", zap.Error(err))
			}
			g.Events.PaymentSettled(settled)
			return settled, declined
		}

		// Ambiguous outcome: never settle on a timeout.
		if _, markErr := g.Bookings.MarkPaymentPending(p.BookingID); markErr != nil {
			g.Logger.Error("failed to mark booking payment pending", zap.Error(markErr))
		}
		g.Logger.Warn("capture outcome unknown",
			zap.String("payment", p.ID),
			zap.Error(err),
		)
		return p, err
	}

	settled, err := g.Repo.Settle(p.ID, models.PaymentSucceeded, result.TransactionID, "")
	if err != nil {
		return nil, err
	}
	if _, err := g.Bookings.MarkPaid(p.BookingID); err != nil {
		g.Logger.Error("failed to mark booking paid", zap.Error(err))
	}
	g.Events.PaymentSettled(settled)

	g.Logger.Info("Payment captured",
		zap.String("booking", p.BookingID),
		zap.String("transaction", result.TransactionID),
	)
	return settled, nil
}
