package payment

import (
	"context"

	"tourly/models"
)

// OrderStatus is the provider's view of a payment order.
type OrderStatus string

const (
	OrderPaid    OrderStatus = "paid"
	OrderPending OrderStatus = "pending"
	OrderFailed  OrderStatus = "failed"
)

// CaptureResult is the outcome of a synchronous capture attempt.
type CaptureResult struct {
	TransactionID string
}

// RedirectOrder is a provider-hosted payment the client must be redirected to.
type RedirectOrder struct {
	OrderID string
	PayURL  string
}

// Provider is the contract this engine expects from an external payment
// network. Every call must respect the context deadline; an ambiguous outcome
// (timeout, network failure) is reported as an error, never guessed at.
type Provider interface {
	// Capture attempts an immediate charge. A declined charge returns a
	// *DeclinedError; infrastructure trouble returns ErrProviderTimeout or
	// ErrProviderUnavailable.
	Capture(ctx context.Context, p *models.Payment, card *models.CardDetails) (*CaptureResult, error)

	// CreateOrder registers a redirect-based payment and returns the URL the
	// client is sent to.
	CreateOrder(ctx context.Context, p *models.Payment) (*RedirectOrder, error)

	// QueryOrder reports the current status of a previously created order.
	QueryOrder(ctx context.Context, orderID string) (OrderStatus, error)
}
