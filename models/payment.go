package models

import "time"

// PaymentStatus is the settlement state of a payment attempt.
type PaymentStatus string

const (
	PaymentInitiated           PaymentStatus = "initiated"
	PaymentPendingConfirmation PaymentStatus = "pending_confirmation"
	PaymentSucceeded           PaymentStatus = "succeeded"
	PaymentStatusFailed        PaymentStatus = "failed"
)

// Payment records a single payment attempt against a booking. At most one
// payment per booking is active (initiated or pending confirmation); prior
// failed attempts are retained as history.
type Payment struct {
	ID                    string        `bson:"id" json:"id"`
	BookingID             string        `bson:"booking_id" json:"bookingId"`
	Method                string        `bson:"method" json:"method"`
	Amount                float64       `bson:"amount" json:"amount"`
	Currency              string        `bson:"currency" json:"currency"`
	FeeAmount             float64       `bson:"fee_amount" json:"feeAmount"`
	ProviderTransactionID string        `bson:"provider_transaction_id,omitempty" json:"providerTransactionId,omitempty"`
	PayURL                string        `bson:"pay_url,omitempty" json:"payUrl,omitempty"`
	Status                PaymentStatus `bson:"status" json:"status"`
	FailureReason         string        `bson:"failure_reason,omitempty" json:"failureReason,omitempty"`
	CreatedAt             time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt             time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Active reports whether this payment still has an outcome in flight.
func (p *Payment) Active() bool {
	return p.Status == PaymentInitiated || p.Status == PaymentPendingConfirmation
}

// Terminal reports whether the payment has settled.
func (p *Payment) Terminal() bool {
	return p.Status == PaymentSucceeded || p.Status == PaymentStatusFailed
}

// PaymentMethod describes a registered payment method: its fee rate and the
// display metadata the client renders. The registry is immutable
// configuration injected at construction, never mutated at runtime.
type PaymentMethod struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	FeeRate  float64 `json:"feeRate"`
	Icon     string  `json:"icon,omitempty"`
	Redirect bool    `json:"redirect"`
}

// CardDetails is the card input validated before a card capture.
type CardDetails struct {
	Number     string `json:"cardNumber"`
	Expiry     string `json:"expiry"` // MM/YY
	CVV        string `json:"cvv"`
	HolderName string `json:"holderName"`
}

// BillingAddress is the optional billing block validated when the flow
// requires one.
type BillingAddress struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}
