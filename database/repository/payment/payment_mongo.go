package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"tourly/database"
	"tourly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo creates a new instance of PaymentRepository using MongoDB.
func NewMongoPaymentRepo() PaymentRepository {
	repo := &MongoPaymentRepo{coll: database.Collection("payments")}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoPaymentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
		// At most one active payment per booking, enforced by the store so
		// concurrent creates cannot both insert.
		{
			Keys: bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": []models.PaymentStatus{
						models.PaymentInitiated,
						models.PaymentPendingConfirmation,
					}},
				}),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new payment document. Insertion is a single write, so a
// partially created payment can never be observed.
func (r *MongoPaymentRepo) Create(payment *models.Payment) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, payment)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateActive
	}
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByID fetches a payment by its ID.
func (r *MongoPaymentRepo) GetByID(id string) (*models.Payment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var payment models.Payment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment with id %s: %w", id, err)
	}
	return &payment, nil
}

// GetActiveByBooking returns the in-flight payment for a booking, if any.
func (r *MongoPaymentRepo) GetActiveByBooking(bookingID string) (*models.Payment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"booking_id": bookingID,
		"status": bson.M{"$in": []models.PaymentStatus{
			models.PaymentInitiated,
			models.PaymentPendingConfirmation,
		}},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var payment models.Payment
	err := r.coll.FindOne(ctx, filter, opts).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active payment for booking %s: %w", bookingID, err)
	}
	return &payment, nil
}

// GetLatestByBooking returns the most recent payment attempt for a booking.
func (r *MongoPaymentRepo) GetLatestByBooking(bookingID string) (*models.Payment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var payment models.Payment
	err := r.coll.FindOne(ctx, bson.M{"booking_id": bookingID}, opts).Decode(&payment)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment for booking %s: %w", bookingID, err)
	}
	return &payment, nil
}

// Settle moves a payment to a terminal status, conditioned on it still being
// in flight. A matched count of zero on an existing payment means another
// caller settled it first.
func (r *MongoPaymentRepo) Settle(id string, status models.PaymentStatus, providerTxID, failureReason string) (*models.Payment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"id": id,
		"status": bson.M{"$in": []models.PaymentStatus{
			models.PaymentInitiated,
			models.PaymentPendingConfirmation,
		}},
	}

	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	if providerTxID != "" {
		set["provider_transaction_id"] = providerTxID
	}
	if failureReason != "" {
		set["failure_reason"] = failureReason
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Payment
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		if _, getErr := r.GetByID(id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrAlreadySettled
	}
	if err != nil {
		return nil, fmt.Errorf("failed to settle payment %s: %w", id, err)
	}
	return &updated, nil
}

// ListUnsettledBefore returns in-flight payments created before the cutoff,
// oldest first.
func (r *MongoPaymentRepo) ListUnsettledBefore(olderThan time.Time, limit int64) ([]models.Payment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"status": bson.M{"$in": []models.PaymentStatus{
			models.PaymentInitiated,
			models.PaymentPendingConfirmation,
		}},
		"created_at": bson.M{"$lt": olderThan},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query stuck payments: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("error decoding payments: %w", err)
	}
	return payments, nil
}
