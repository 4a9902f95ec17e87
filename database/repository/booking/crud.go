package bookingRepo

import (
	"fmt"
	"time"

	"tourly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(booking *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID fetches a booking by its ID.
func (r *MongoBookingRepo) GetByID(id string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return &booking, nil
}

// GetByTourist returns all bookings for a tourist, newest first.
func (r *MongoBookingRepo) GetByTourist(touristID string) ([]models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"tourist_id": touristID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings for tourist %s: %w", touristID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// ApplyTransition applies a status change conditioned on the previously read
// status and version. A matched count of zero means the stored document moved
// on since the caller read it.
func (r *MongoBookingRepo) ApplyTransition(id string, expectedStatus models.BookingStatus, expectedVersion int, change StatusChange) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":      id,
		"status":  expectedStatus,
		"version": expectedVersion,
	}

	set := bson.M{
		"status":     change.NewStatus,
		"updated_at": time.Now(),
	}
	if change.PaymentStatus != nil {
		set["payment_status"] = *change.PaymentStatus
	}
	if change.RefundFraction != nil {
		set["refund_fraction"] = *change.RefundFraction
	}
	if change.CancelCause != "" {
		set["cancel_cause"] = change.CancelCause
	}
	if change.CancelledBy != "" {
		set["cancelled_by"] = change.CancelledBy
	}

	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		// Distinguish a missing booking from a concurrent transition.
		if _, getErr := r.GetByID(id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply transition on booking %s: %w", id, err)
	}
	return &updated, nil
}

// SetPaymentState flips payment_status when the current value is one of the
// accepted pre-states. Settlement is monotonic: no match means the stored
// state already moved past the caller's expectation. A cancelled booking
// never reads paid or pending, even when settlement lands after the cancel.
func (r *MongoBookingRepo) SetPaymentState(id string, from []models.PaymentState, to models.PaymentState) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id":             id,
		"payment_status": bson.M{"$in": from},
	}
	if to == models.PaymentPaid || to == models.PaymentPending {
		filter["status"] = bson.M{"$ne": models.BookingCancelled}
	}
	update := bson.M{
		"$set": bson.M{
			"payment_status": to,
			"updated_at":     time.Now(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		if _, getErr := r.GetByID(id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set payment state on booking %s: %w", id, err)
	}
	return &updated, nil
}
