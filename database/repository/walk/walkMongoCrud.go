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

// CreateIfAbsent upserts the walk detail keyed on booking id. A concurrent
// start that arrives second gets the already-created record back.
func (r *MongoWalkRepo) CreateIfAbsent(ctx context.Context, detail *models.WalkDetail) (*models.WalkDetail, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"booking_id": detail.BookingID}
	update := bson.M{"$setOnInsert": detail}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result models.WalkDetail
	if err := r.detailColl.FindOneAndUpdate(ctxWithTimeout, filter, update, opts).Decode(&result); err != nil {
		return nil, fmt.Errorf("error creating walk detail for booking %s: %w", detail.BookingID, err)
	}
	return &result, nil
}

// GetByBooking retrieves the walk detail for a booking.
func (r *MongoWalkRepo) GetByBooking(ctx context.Context, bookingID string) (*models.WalkDetail, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var detail models.WalkDetail
	err := r.detailColl.FindOne(ctxWithTimeout, bson.M{"booking_id": bookingID}).Decode(&detail)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching walk detail for booking %s: %w", bookingID, err)
	}
	return &detail, nil
}

// SetPhoto stores a checkpoint photo URL. The status filter keeps terminal
// records immutable.
func (r *MongoWalkRepo) SetPhoto(ctx context.Context, bookingID string, kind models.PhotoKind, url string) (*models.WalkDetail, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	field := map[models.PhotoKind]string{
		models.PhotoStart:  "start_photo_url",
		models.PhotoMiddle: "middle_photo_url",
		models.PhotoEnd:    "end_photo_url",
	}[kind]
	if field == "" {
		return nil, fmt.Errorf("unknown photo kind %q", kind)
	}

	filter := bson.M{
		"booking_id": bookingID,
		"status":     bson.M{"$nin": bson.A{models.WalkCompleted, models.WalkTerminatedEarly}},
	}
	update := bson.M{"$set": bson.M{field: url, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var detail models.WalkDetail
	err := r.detailColl.FindOneAndUpdate(ctxWithTimeout, filter, update, opts).Decode(&detail)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classifyDetailMiss(ctxWithTimeout, bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("error storing %s photo for booking %s: %w", kind, bookingID, err)
	}
	return &detail, nil
}

// AppendNotes appends a line of incident/special notes to the detail.
func (r *MongoWalkRepo) AppendNotes(ctx context.Context, bookingID, notes string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	detail, err := r.GetByBooking(ctxWithTimeout, bookingID)
	if err != nil {
		return err
	}
	combined := notes
	if detail.Notes != "" {
		combined = detail.Notes + "\n" + notes
	}

	_, err = r.detailColl.UpdateOne(ctxWithTimeout,
		bson.M{"booking_id": bookingID},
		bson.M{"$set": bson.M{"notes": combined, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("error appending notes for booking %s: %w", bookingID, err)
	}
	return nil
}

// FinalizeWalk transitions the booking and freezes the detail inside one
// mongo transaction so a storage failure leaves neither half applied.
func (r *MongoWalkRepo) FinalizeWalk(ctx context.Context, p FinalizeParams) (*models.WalkDetail, error) {
	client := r.detailColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var finalized models.WalkDetail

	txnFn := func(sc mongo.SessionContext) error {
		res, err := r.bookingColl.UpdateOne(sc,
			bson.M{"id": p.BookingID, "status": p.FromStatus},
			bson.M{"$set": bson.M{"status": models.BookingCompleted, "updated_at": time.Now()}})
		if err != nil {
			return fmt.Errorf("booking transition failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return r.classifyBookingMiss(sc, p.BookingID, p.FromStatus)
		}

		if p.ResolveRequestID != "" {
			res, err := r.terminationColl.UpdateOne(sc,
				bson.M{"id": p.ResolveRequestID, "status": models.TerminationPending},
				bson.M{"$set": bson.M{
					"status":      models.TerminationAccepted,
					"response":    p.ResolveResponse,
					"resolved_at": p.ActualEndTime,
				}})
			if err != nil {
				return fmt.Errorf("termination resolution failed: %w", err)
			}
			if res.MatchedCount == 0 {
				return ErrConflict
			}
		}

		set := bson.M{
			"status":          p.DetailStatus,
			"actual_end_time": p.ActualEndTime,
			"stats":           p.Stats,
			"updated_at":      time.Now(),
		}
		update := bson.M{"$set": set}

		var detail models.WalkDetail
		if err := r.detailColl.FindOne(sc, bson.M{"booking_id": p.BookingID}).Decode(&detail); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return fmt.Errorf("fetch walk detail failed: %w", err)
		}
		if p.AppendNotes != "" {
			combined := p.AppendNotes
			if detail.Notes != "" {
				combined = detail.Notes + "\n" + p.AppendNotes
			}
			set["notes"] = combined
		}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		if err := r.detailColl.FindOneAndUpdate(sc, bson.M{"booking_id": p.BookingID}, update, opts).Decode(&finalized); err != nil {
			return fmt.Errorf("freeze walk detail failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("walk finalization transaction failed: %w", err)
	}

	return &finalized, nil
}

func (r *MongoWalkRepo) classifyDetailMiss(ctx context.Context, bookingID string) error {
	count, err := r.detailColl.CountDocuments(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return fmt.Errorf("error checking walk detail existence: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

func (r *MongoWalkRepo) classifyBookingMiss(ctx context.Context, bookingID string, _ models.BookingStatus) error {
	count, err := r.bookingColl.CountDocuments(ctx, bson.M{"id": bookingID})
	if err != nil {
		return fmt.Errorf("error checking booking existence: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}
