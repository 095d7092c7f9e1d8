package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"petmily/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListByUser returns all bookings placed by the given owner, newest first.
func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"user_id": userID})
}

// ListByWalker returns all bookings assigned to the given walker, newest first.
func (r *MongoBookingRepo) ListByWalker(ctx context.Context, walkerID string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"walker_id": walkerID})
}

// ListOpenRequests returns unclaimed open-request bookings, newest first.
func (r *MongoBookingRepo) ListOpenRequests(ctx context.Context) ([]models.Booking, error) {
	return r.list(ctx, bson.M{
		"booking_method": models.MethodOpenRequest,
		"status":         models.BookingPending,
	})
}

func (r *MongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctxWithTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var bookings []models.Booking
	if err := cursor.All(ctxWithTimeout, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
