package models

import "time"

// CreateBookingRequest is the payload for POST /bookings.
type CreateBookingRequest struct {
	TouristID        string    `json:"touristId"`
	GuideID          string    `json:"guideId"`
	TourID           string    `json:"tourId"`
	TourTitle        string    `json:"tourTitle"`
	GuideName        string    `json:"guideName"`
	ScheduledAt      time.Time `json:"scheduledAt"`
	ParticipantCount int       `json:"participantCount"`
	TotalPrice       float64   `json:"totalPrice"`
	Currency         string    `json:"currency"`
}

// UpdateBookingStatusRequest is the payload for PUT /bookings/:id/status.
// Cause and Initiator only apply to cancellations.
type UpdateBookingStatusRequest struct {
	Status    BookingStatus `json:"status"`
	Initiator string        `json:"initiator,omitempty"`
	Cause     string        `json:"cause,omitempty"`

	// ConfirmUnpaid allows confirming a booking that has not been paid,
	// for cash/offline flows.
	ConfirmUnpaid bool `json:"confirmUnpaid,omitempty"`
}

// CreatePaymentRequest is the payload for POST /payments.
type CreatePaymentRequest struct {
	BookingID string  `json:"bookingId"`
	Method    string  `json:"method"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`

	Card    *CardDetails    `json:"card,omitempty"`
	Phone   string          `json:"phone,omitempty"`
	Account string          `json:"account,omitempty"`
	Billing *BillingAddress `json:"billing,omitempty"`
}

// MomoCreateRequest is the payload for POST /payments/momo/create.
type MomoCreateRequest struct {
	BookingID string  `json:"bookingId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Phone     string  `json:"phone"`
}

// MomoCreateResponse carries the provider redirect for a wallet payment.
type MomoCreateResponse struct {
	BookingID string `json:"bookingId"`
	OrderID   string `json:"orderId"`
	PayURL    string `json:"payUrl"`
}
