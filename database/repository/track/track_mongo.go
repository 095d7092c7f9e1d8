package trackRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petmily/database"
	"petmily/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTrackRepo implements TrackRepository using MongoDB.
type MongoTrackRepo struct {
	coll *mongo.Collection
}

// NewMongoTrackRepo creates a new instance of TrackRepository using MongoDB.
func NewMongoTrackRepo() TrackRepository {
	coll := database.MongoClient.Database("petmily").Collection("track_points")
	repo := &MongoTrackRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create track indexes: %v\n", err)
	}
	return repo
}

func (r *MongoTrackRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	return err
}

// Append inserts one track point. InsertOne returns only after the write is
// acknowledged, so an accepted point is durable before the caller hears back.
func (r *MongoTrackRepo) Append(ctx context.Context, point *models.TrackPoint) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctxWithTimeout, point); err != nil {
		return fmt.Errorf("error appending track point: %w", err)
	}
	return nil
}

// QueryAfter returns points strictly after the cursor, ascending.
func (r *MongoTrackRepo) QueryAfter(ctx context.Context, bookingID string, after time.Time) ([]models.TrackPoint, error) {
	filter := bson.M{"booking_id": bookingID, "timestamp": bson.M{"$gt": after}}
	return r.find(ctx, filter)
}

// Latest returns the most recent point for a booking.
func (r *MongoTrackRepo) Latest(ctx context.Context, bookingID string) (*models.TrackPoint, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	var point models.TrackPoint
	err := r.coll.FindOne(ctxWithTimeout, bson.M{"booking_id": bookingID}, opts).Decode(&point)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoPoints
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching latest track point: %w", err)
	}
	return &point, nil
}

// ListByBooking returns the full ordered track for a booking.
func (r *MongoTrackRepo) ListByBooking(ctx context.Context, bookingID string) ([]models.TrackPoint, error) {
	return r.find(ctx, bson.M{"booking_id": bookingID})
}

// CountByBooking returns the number of stored points for a booking.
func (r *MongoTrackRepo) CountByBooking(ctx context.Context, bookingID string) (int64, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctxWithTimeout, bson.M{"booking_id": bookingID})
	if err != nil {
		return 0, fmt.Errorf("error counting track points: %w", err)
	}
	return count, nil
}

func (r *MongoTrackRepo) find(ctx context.Context, filter bson.M) ([]models.TrackPoint, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.coll.Find(ctxWithTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying track points: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var points []models.TrackPoint
	if err := cursor.All(ctxWithTimeout, &points); err != nil {
		return nil, fmt.Errorf("error decoding track points: %w", err)
	}
	return points, nil
}
