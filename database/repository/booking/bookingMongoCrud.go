package bookingRepo

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

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctxWithTimeout, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctxWithTimeout, bson.M{"id": bookingID}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

// UpdateStatus performs the compare-and-swap transition. The filter pins the
// expected status so a lost race matches zero documents instead of clobbering
// a concurrent transition.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, set map[string]interface{}) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"status": to, "updated_at": time.Now()}
	for k, v := range set {
		update[k] = v
	}

	filter := bson.M{"id": bookingID, "status": from}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctxWithTimeout, filter, bson.M{"$set": update}, opts).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classifyMiss(ctxWithTimeout, bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("error updating booking %s status: %w", bookingID, err)
	}
	return &booking, nil
}

// AssignWalker claims an open request for a walker. The empty walker_id in
// the filter guarantees only one applicant wins.
func (r *MongoBookingRepo) AssignWalker(ctx context.Context, bookingID, walkerID string) (*models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":             bookingID,
		"status":         models.BookingPending,
		"booking_method": models.MethodOpenRequest,
		"walker_id":      "",
	}
	update := bson.M{"$set": bson.M{
		"walker_id":  walkerID,
		"status":     models.BookingWalkerApplied,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.coll.FindOneAndUpdate(ctxWithTimeout, filter, update, opts).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classifyMiss(ctxWithTimeout, bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("error assigning walker to booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

// classifyMiss distinguishes a missing booking from a lost CAS race.
func (r *MongoBookingRepo) classifyMiss(ctx context.Context, bookingID string) error {
	count, err := r.coll.CountDocuments(ctx, bson.M{"id": bookingID})
	if err != nil {
		return fmt.Errorf("error checking booking %s existence: %w", bookingID, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}
