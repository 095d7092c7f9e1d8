package walkRepo

import (
	"context"
	"fmt"
	"time"

	"petmily/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWalkRepo implements WalkDetailRepository and TerminationRepository
// using MongoDB. It also holds the bookings collection so the completion
// transaction can touch both documents in one session.
type MongoWalkRepo struct {
	detailColl      *mongo.Collection
	terminationColl *mongo.Collection
	bookingColl     *mongo.Collection
}

// NewMongoWalkRepo constructs a new instance of MongoWalkRepo.
func NewMongoWalkRepo() *MongoWalkRepo {
	db := database.MongoClient.Database("petmily")
	repo := &MongoWalkRepo{
		detailColl:      db.Collection("walk_details"),
		terminationColl: db.Collection("termination_requests"),
		bookingColl:     db.Collection("bookings"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create walk indexes: %v\n", err)
	}
	return repo
}

func (r *MongoWalkRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.detailColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	// Partial unique index enforces at most one PENDING request per booking
	// at the storage engine, independent of service-level checks.
	_, err = r.terminationColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "booking_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": "PENDING"}),
	})
	return err
}
