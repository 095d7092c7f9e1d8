package walk

import (
	"context"
	"errors"
	"fmt"
	"time"

	walkRepo "petmily/database/repository/walk"
	"petmily/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordPhoto stores one of the three checkpoint photos against the walk
// detail. START must exist before MIDDLE or END; a terminal walk refuses
// further photos. The END photo is the gate CompleteWalk checks.
func (s *DefaultWalkService) RecordPhoto(ctx context.Context, bookingID string, actor models.Actor, req models.PhotoRequest) (*models.WalkDetail, error) {
	if !models.ValidPhotoKind(req.Kind) {
		return nil, NewPreconditionFailed(fmt.Sprintf("invalid photo type %q, must be START, MIDDLE, or END", req.Kind))
	}

	if _, err := s.requireWalker(ctx, bookingID, actor); err != nil {
		return nil, err
	}

	detail, err := s.Details.GetByBooking(ctx, bookingID)
	if errors.Is(err, walkRepo.ErrNotFound) {
		return nil, NewPreconditionFailed("walk has not started yet")
	}
	if err != nil {
		return nil, err
	}
	if detail.Status.Terminal() {
		return nil, NewInvalidState("walk is already finished")
	}
	if req.Kind != models.PhotoStart && detail.StartPhotoURL == "" {
		return nil, NewPreconditionFailed("start checkpoint photo must be recorded first")
	}

	updated, err := s.Details.SetPhoto(ctx, bookingID, req.Kind, req.PhotoURL)
	if err != nil {
		return nil, s.mapWalkErr(err)
	}

	if req.Location != nil {
		point := &models.TrackPoint{
			ID:        uuid.New().String(),
			BookingID: bookingID,
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
			Timestamp: time.Now(),
			Kind:      models.TrackCheckpoint,
		}
		if err := s.Tracks.Append(ctx, point); err != nil && s.Logger != nil {
			s.Logger.Warn("failed to record checkpoint track point",
				zap.String("bookingId", bookingID), zap.Error(err))
		}
	}

	return updated, nil
}
