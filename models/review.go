package models

import "time"

// Review is a tourist's rating of a completed tour.
type Review struct {
	ID        string    `bson:"id" json:"id"`
	BookingID string    `bson:"booking_id" json:"bookingId"`
	TouristID string    `bson:"tourist_id" json:"touristId"`
	GuideID   string    `bson:"guide_id" json:"guideId"`
	TourID    string    `bson:"tour_id" json:"tourId"`
	Rating    int       `bson:"rating" json:"rating"` // 1..5
	Comment   string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
