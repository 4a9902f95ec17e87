package payment

import (
	"context"
	"errors"
	"math"
	"strings"

	"tourly/models"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// StripeProvider settles direct-capture methods (card, apple_pay,
// google_pay) through Stripe PaymentIntents. Raw card numbers never leave
// this engine; the intent is confirmed against Stripe's tokenized method.
type StripeProvider struct {
	Logger *zap.Logger
}

func (s *StripeProvider) Capture(ctx context.Context, p *models.Payment, card *models.CardDetails) (*CaptureResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(toMinorUnits(p.Amount + p.FeeAmount)),
		Currency:    stripe.String(strings.ToLower(p.Currency)),
		Confirm:     stripe.Bool(true),
		Description: stripe.String("Tour booking " + p.BookingID),
	}
	params.Context = ctx
	// Keyed on the payment id so a retry after an ambiguous outcome can
	// never charge twice at the provider.
	params.SetIdempotencyKey(p.ID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, s.mapErr(ctx, err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, &DeclinedError{Reason: "charge not completed: " + string(pi.Status)}
	}
	return &CaptureResult{TransactionID: pi.ID}, nil
}

func (s *StripeProvider) CreateOrder(ctx context.Context, p *models.Payment) (*RedirectOrder, error) {
	// Stripe handles direct capture only in this deployment; redirect
	// methods go through the wallet providers.
	return nil, ErrUnknownMethod
}

func (s *StripeProvider) QueryOrder(ctx context.Context, orderID string) (OrderStatus, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(orderID, params)
	if err != nil {
		return OrderPending, s.mapErr(ctx, err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return OrderPaid, nil
	case stripe.PaymentIntentStatusCanceled:
		return OrderFailed, nil
	default:
		return OrderPending, nil
	}
}

func (s *StripeProvider) mapErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ErrProviderTimeout
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Code == stripe.ErrorCodeCardDeclined {
			return &DeclinedError{Reason: stripeErr.Msg}
		}
		s.Logger.Warn("stripe error", zap.String("code", string(stripeErr.Code)))
		return ErrProviderUnavailable
	}
	return ErrProviderUnavailable
}

// toMinorUnits converts a decimal amount to the currency's minor units.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
