package walk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	trackRepo "petmily/database/repository/track"
	"petmily/models"
	"petmily/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IngestTrack validates and durably appends one GPS sample. Appends for the
// same booking are serialized so every accepted point lands in timestamp
// order; a rejected point is discarded without touching the store and the
// session continues.
func (s *DefaultWalkService) IngestTrack(ctx context.Context, bookingID string, actor models.Actor, req models.TrackRequest) (*models.TrackPoint, error) {
	booking, err := s.requireWalker(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingInProgress {
		return nil, NewInvalidState("can only track location during an active walk")
	}

	if !utils.ValidCoordinates(req.Latitude, req.Longitude) {
		return nil, NewPreconditionFailed(fmt.Sprintf("invalid coordinates (%f, %f)", req.Latitude, req.Longitude))
	}

	timestamp := time.Now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}
	kind := req.Kind
	if kind == "" {
		kind = models.TrackWalking
	}

	lock := s.locks.get(bookingID)
	lock.Lock()
	defer lock.Unlock()

	last, err := s.Tracks.Latest(ctx, bookingID)
	if err != nil && !errors.Is(err, trackRepo.ErrNoPoints) {
		return nil, err
	}
	if last != nil {
		if err := s.checkPlausibility(last, req.Latitude, req.Longitude, timestamp); err != nil {
			return nil, err
		}
	}

	point := &models.TrackPoint{
		ID:        uuid.New().String(),
		BookingID: bookingID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timestamp: timestamp,
		Accuracy:  req.Accuracy,
		Kind:      kind,
		SpeedMS:   req.SpeedMS,
		Altitude:  req.Altitude,
	}
	if err := s.Tracks.Append(ctx, point); err != nil {
		return nil, err
	}

	s.cacheLastLocation(ctx, point)
	s.publishTrackUpdate(ctx, point)
	return point, nil
}

// cacheLastLocation keeps the freshest accepted sample in Redis so the live
// map can serve "where is the dog now" without touching the track store.
func (s *DefaultWalkService) cacheLastLocation(ctx context.Context, point *models.TrackPoint) {
	if s.Cache == nil {
		return
	}
	payload, err := json.Marshal(point)
	if err == nil {
		err = s.Cache.Set(ctx, lastLocationKey(point.BookingID), payload, 2*time.Hour).Err()
	}
	if err != nil && s.Logger != nil {
		s.Logger.Warn("failed to cache last walk location",
			zap.String("bookingId", point.BookingID), zap.Error(err))
	}
}

// publishTrackUpdate pushes the sample to the booking's realtime channel.
// The durable append already succeeded; a failed publish only degrades the
// live map to polling.
func (s *DefaultWalkService) publishTrackUpdate(ctx context.Context, point *models.TrackPoint) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishTrackUpdate(ctx, *point); err != nil && s.Logger != nil {
		s.Logger.Warn("failed to publish track update",
			zap.String("bookingId", point.BookingID), zap.Error(err))
	}
}

func lastLocationKey(bookingID string) string {
	return "walk:lastloc:" + bookingID
}

// checkPlausibility rejects samples that run backwards in time beyond the
// clock-skew tolerance or imply movement faster than the configured ceiling.
func (s *DefaultWalkService) checkPlausibility(last *models.TrackPoint, lat, lon float64, timestamp time.Time) error {
	if timestamp.Before(last.Timestamp.Add(-s.Policy.ClockSkew)) {
		return NewImplausibleMovement(fmt.Sprintf(
			"timestamp %s is older than the last recorded sample %s",
			timestamp.Format(time.RFC3339), last.Timestamp.Format(time.RFC3339)))
	}

	elapsed := timestamp.Sub(last.Timestamp).Seconds()
	if elapsed <= 0 {
		// Within skew tolerance but not after the last sample; nothing to
		// derive a speed from.
		return nil
	}

	distance := utils.HaversineM(last.Latitude, last.Longitude, lat, lon)
	speed := distance / elapsed
	if s.Policy.MaxSpeedMS > 0 && speed > s.Policy.MaxSpeedMS {
		return NewImplausibleMovement(fmt.Sprintf(
			"implied speed %.1f m/s exceeds the %.1f m/s ceiling", speed, s.Policy.MaxSpeedMS))
	}
	return nil
}

// RealtimeTrack returns the points captured strictly after the cursor, for
// incremental polling by the owner's live map.
func (s *DefaultWalkService) RealtimeTrack(ctx context.Context, bookingID string, actor models.Actor, after time.Time) ([]models.TrackPoint, error) {
	if _, err := s.requireParticipant(ctx, bookingID, actor); err != nil {
		return nil, err
	}
	return s.Tracks.QueryAfter(ctx, bookingID, after)
}

// LatestTrack returns the most recent accepted sample. The Redis cache is
// consulted first; the track store is the fallback when the cache is cold.
func (s *DefaultWalkService) LatestTrack(ctx context.Context, bookingID string, actor models.Actor) (*models.TrackPoint, error) {
	if _, err := s.requireParticipant(ctx, bookingID, actor); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		payload, err := s.Cache.Get(ctx, lastLocationKey(bookingID)).Bytes()
		if err == nil {
			var point models.TrackPoint
			if err := json.Unmarshal(payload, &point); err == nil {
				return &point, nil
			}
		}
	}

	point, err := s.Tracks.Latest(ctx, bookingID)
	if err != nil {
		if errors.Is(err, trackRepo.ErrNoPoints) {
			return nil, NewNotFound("no track points recorded yet")
		}
		return nil, err
	}
	return point, nil
}

// GetWalkPath returns the full ordered track with aggregate statistics.
func (s *DefaultWalkService) GetWalkPath(ctx context.Context, bookingID string, actor models.Actor) (*models.WalkPathResponse, error) {
	if _, err := s.requireParticipant(ctx, bookingID, actor); err != nil {
		return nil, err
	}

	points, err := s.Tracks.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return &models.WalkPathResponse{
		BookingID:   bookingID,
		TrackPoints: points,
		Statistics:  ComputeWalkStats(points),
	}, nil
}
