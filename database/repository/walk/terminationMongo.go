package walkRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petmily/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new PENDING termination request. The partial unique index
// on (booking_id, status=PENDING) turns a duplicate proposal into ErrConflict.
func (r *MongoWalkRepo) Create(ctx context.Context, req *models.TerminationRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.terminationColl.InsertOne(ctxWithTimeout, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("error creating termination request: %w", err)
	}
	return nil
}

// GetPendingByBooking returns the live PENDING request for a booking.
func (r *MongoWalkRepo) GetPendingByBooking(ctx context.Context, bookingID string) (*models.TerminationRequest, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var req models.TerminationRequest
	filter := bson.M{"booking_id": bookingID, "status": models.TerminationPending}
	err := r.terminationColl.FindOne(ctxWithTimeout, filter).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching pending termination request: %w", err)
	}
	return &req, nil
}

// Resolve moves a PENDING request into its final state. The status filter is
// the CAS guard against a concurrent resolve or expiry.
func (r *MongoWalkRepo) Resolve(ctx context.Context, requestID string, status models.TerminationStatus, response string, resolvedAt time.Time) (*models.TerminationRequest, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": requestID, "status": models.TerminationPending}
	update := bson.M{"$set": bson.M{
		"status":      status,
		"response":    response,
		"resolved_at": resolvedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var req models.TerminationRequest
	err := r.terminationColl.FindOneAndUpdate(ctxWithTimeout, filter, update, opts).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classifyRequestMiss(ctxWithTimeout, requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("error resolving termination request %s: %w", requestID, err)
	}
	return &req, nil
}

// Expire marks a PENDING request EXPIRED. A zero-match update means someone
// resolved it first, which is not an error for expiry.
func (r *MongoWalkRepo) Expire(ctx context.Context, requestID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": requestID, "status": models.TerminationPending}
	update := bson.M{"$set": bson.M{"status": models.TerminationExpired, "resolved_at": time.Now()}}
	if _, err := r.terminationColl.UpdateOne(ctxWithTimeout, filter, update); err != nil {
		return fmt.Errorf("error expiring termination request %s: %w", requestID, err)
	}
	return nil
}

// InvalidatePending discards whatever PENDING request exists for a booking,
// used when the booking itself is cancelled.
func (r *MongoWalkRepo) InvalidatePending(ctx context.Context, bookingID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"booking_id": bookingID, "status": models.TerminationPending}
	update := bson.M{"$set": bson.M{"status": models.TerminationExpired, "resolved_at": time.Now()}}
	if _, err := r.terminationColl.UpdateMany(ctxWithTimeout, filter, update); err != nil {
		return fmt.Errorf("error invalidating termination requests for booking %s: %w", bookingID, err)
	}
	return nil
}

func (r *MongoWalkRepo) classifyRequestMiss(ctx context.Context, requestID string) error {
	count, err := r.terminationColl.CountDocuments(ctx, bson.M{"id": requestID})
	if err != nil {
		return fmt.Errorf("error checking termination request existence: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}
