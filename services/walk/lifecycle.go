package walk

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "petmily/database/repository/booking"
	walkRepo "petmily/database/repository/walk"
	"petmily/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartWalk transitions a CONFIRMED booking into IN_PROGRESS and creates the
// walk detail. Start is idempotent on the detail: a retried call gets the
// already-created record back instead of an error.
func (s *DefaultWalkService) StartWalk(ctx context.Context, bookingID string, actor models.Actor, startLocation *models.GeoPoint) (*models.WalkDetail, error) {
	booking, err := s.requireWalker(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	// A retried start against a walk that is already running converges on
	// the existing detail instead of erroring.
	if booking.Status == models.BookingInProgress {
		return s.Details.CreateIfAbsent(ctx, newWalkDetail(bookingID, now))
	}
	if !booking.Status.CanTransition(models.BookingInProgress) {
		return nil, NewInvalidState(fmt.Sprintf("can only start confirmed bookings, current status is %s", booking.Status))
	}

	if _, err := s.Bookings.UpdateStatus(ctx, bookingID, models.BookingConfirmed, models.BookingInProgress, nil); err != nil {
		if errors.Is(err, bookingRepo.ErrConflict) {
			// Lost the CAS. When the winner was another start call the walk
			// is running anyway; hand its detail back.
			if current, gerr := s.Bookings.GetByID(ctx, bookingID); gerr == nil && current.Status == models.BookingInProgress {
				return s.Details.CreateIfAbsent(ctx, newWalkDetail(bookingID, now))
			}
		}
		return nil, s.mapBookingErr(err)
	}

	created, err := s.Details.CreateIfAbsent(ctx, newWalkDetail(bookingID, now))
	if err != nil {
		return nil, err
	}

	if startLocation != nil {
		point := &models.TrackPoint{
			ID:        uuid.New().String(),
			BookingID: bookingID,
			Latitude:  startLocation.Latitude,
			Longitude: startLocation.Longitude,
			Timestamp: now,
			Kind:      models.TrackStart,
		}
		if err := s.Tracks.Append(ctx, point); err != nil && s.Logger != nil {
			s.Logger.Warn("failed to record start track point",
				zap.String("bookingId", bookingID), zap.Error(err))
		}
	}

	s.publish(ctx, models.EventWalkStarted, bookingID, actor.ID, nil)
	return created, nil
}

func newWalkDetail(bookingID string, now time.Time) *models.WalkDetail {
	return &models.WalkDetail{
		ID:              uuid.New().String(),
		BookingID:       bookingID,
		Status:          models.WalkInProgress,
		ActualStartTime: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CompleteWalk finalizes an IN_PROGRESS walk: it requires the END checkpoint
// photo, freezes the track statistics into the detail and moves the booking
// to COMPLETED, all atomically.
func (s *DefaultWalkService) CompleteWalk(ctx context.Context, bookingID string, actor models.Actor, req models.WalkEndRequest) (*models.WalkDetail, error) {
	booking, err := s.requireWalker(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingInProgress {
		return nil, NewInvalidState(fmt.Sprintf("can only complete walks in progress, current status is %s", booking.Status))
	}

	detail, err := s.Details.GetByBooking(ctx, bookingID)
	if errors.Is(err, walkRepo.ErrNotFound) {
		return nil, NewNotFound("walk detail not found")
	}
	if err != nil {
		return nil, err
	}
	if detail.EndPhotoURL == "" {
		return nil, NewPreconditionFailed("end checkpoint photo must be recorded before completing the walk")
	}

	points, err := s.Tracks.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	stats := ComputeWalkStats(points)

	var notes string
	if req.SpecialNotes != "" {
		notes = "[walker] " + req.SpecialNotes
	}

	finalized, err := s.Details.FinalizeWalk(ctx, walkRepo.FinalizeParams{
		BookingID:     bookingID,
		FromStatus:    models.BookingInProgress,
		DetailStatus:  models.WalkCompleted,
		ActualEndTime: time.Now(),
		Stats:         stats,
		AppendNotes:   notes,
	})
	if err != nil {
		return nil, s.mapWalkErr(err)
	}

	s.publish(ctx, models.EventWalkCompleted, bookingID, actor.ID, map[string]string{
		"totalDistanceM": fmt.Sprintf("%.1f", stats.TotalDistanceM),
	})
	return finalized, nil
}

func (s *DefaultWalkService) mapBookingErr(err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrNotFound):
		return NewNotFound("booking not found")
	case errors.Is(err, bookingRepo.ErrConflict):
		return NewConflict("booking was changed concurrently, retry")
	}
	return err
}

func (s *DefaultWalkService) mapWalkErr(err error) error {
	switch {
	case errors.Is(err, walkRepo.ErrNotFound):
		return NewNotFound("walk record not found")
	case errors.Is(err, walkRepo.ErrConflict):
		return NewConflict("walk was changed concurrently, retry")
	}
	return err
}
