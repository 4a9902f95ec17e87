package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// PaymentState is the settlement state carried on a booking.
type PaymentState string

const (
	PaymentUnpaid   PaymentState = "unpaid"
	PaymentPending  PaymentState = "pending"
	PaymentPaid     PaymentState = "paid"
	PaymentRefunded PaymentState = "refunded"
	PaymentFailed   PaymentState = "failed"
)

// Booking represents a tourist's reservation of a guide's tour.
// Bookings are never deleted; cancellation is a terminal status.
type Booking struct {
	ID               string        `bson:"id" json:"id"`
	TouristID        string        `bson:"tourist_id" json:"touristId"`
	GuideID          string        `bson:"guide_id" json:"guideId"`
	TourID           string        `bson:"tour_id" json:"tourId"`
	ScheduledAt      time.Time     `bson:"scheduled_at" json:"scheduledAt"`
	Status           BookingStatus `bson:"status" json:"status"`
	TotalPrice       float64       `bson:"total_price" json:"totalPrice"`
	Currency         string        `bson:"currency" json:"currency"`
	ParticipantCount int           `bson:"participant_count" json:"participantCount"`
	PaymentStatus    PaymentState  `bson:"payment_status" json:"paymentStatus"`
	RefundFraction   float64       `bson:"refund_fraction,omitempty" json:"refundFraction,omitempty"`
	CancelCause      string        `bson:"cancel_cause,omitempty" json:"cancelCause,omitempty"`
	CancelledBy      string        `bson:"cancelled_by,omitempty" json:"cancelledBy,omitempty"`

	// Denormalized read-model fields, assembled server-side so clients
	// never stitch them together from multiple sources.
	TourTitle string `bson:"tour_title,omitempty" json:"tourTitle,omitempty"`
	GuideName string `bson:"guide_name,omitempty" json:"guideName,omitempty"`

	// Version increments on every status transition and backs the
	// conditional updates that reject concurrent transitions.
	Version   int       `bson:"version" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsTerminal reports whether the booking can accept further transitions.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingCompleted || b.Status == BookingCancelled
}
