package walk

import (
	"context"
	"time"

	bookingRepo "petmily/database/repository/booking"
	trackRepo "petmily/database/repository/track"
	walkRepo "petmily/database/repository/walk"
	"petmily/models"
	"petmily/services/notification"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// WalkService is the walk-session engine: the booking's in-walk lifecycle,
// GPS track ingestion, checkpoint photos, early-termination negotiation and
// emergency contact resolution.
type WalkService interface {
	StartWalk(ctx context.Context, bookingID string, actor models.Actor, startLocation *models.GeoPoint) (*models.WalkDetail, error)
	CompleteWalk(ctx context.Context, bookingID string, actor models.Actor, req models.WalkEndRequest) (*models.WalkDetail, error)

	IngestTrack(ctx context.Context, bookingID string, actor models.Actor, req models.TrackRequest) (*models.TrackPoint, error)
	RealtimeTrack(ctx context.Context, bookingID string, actor models.Actor, after time.Time) ([]models.TrackPoint, error)
	LatestTrack(ctx context.Context, bookingID string, actor models.Actor) (*models.TrackPoint, error)
	GetWalkPath(ctx context.Context, bookingID string, actor models.Actor) (*models.WalkPathResponse, error)

	RecordPhoto(ctx context.Context, bookingID string, actor models.Actor, req models.PhotoRequest) (*models.WalkDetail, error)

	ProposeTermination(ctx context.Context, bookingID string, actor models.Actor, req models.ProposeTerminationRequest) (*models.TerminationRequest, error)
	ResolveTermination(ctx context.Context, bookingID string, actor models.Actor, req models.ResolveTerminationRequest) (*models.TerminationRequest, error)

	EmergencyContact(ctx context.Context, bookingID string, actor models.Actor, req models.EmergencyRequest) (string, error)
}

// Policy holds the tracking-plausibility and negotiation knobs. Values come
// from configuration, not business constants baked into the engine.
type Policy struct {
	MaxSpeedMS        float64       // Implied-speed ceiling for accepting a point
	ClockSkew         time.Duration // Tolerated backwards drift between samples
	TerminationExpiry time.Duration // How long a termination request stays open
}

// DefaultWalkService is the production implementation.
type DefaultWalkService struct {
	Bookings     bookingRepo.BookingRepository
	Details      walkRepo.WalkDetailRepository
	Terminations walkRepo.TerminationRepository
	Tracks       trackRepo.TrackRepository
	Events       notification.EventPublisher
	Cache        *redis.Client // last-known walk locations
	Policy       Policy
	Logger       *zap.Logger

	locks bookingLocks
}

var _ WalkService = (*DefaultWalkService)(nil)

// publish emits a domain event. Delivery is the notification collaborator's
// concern; a failed publish never fails the operation.
func (s *DefaultWalkService) publish(ctx context.Context, name, bookingID, actorID string, data map[string]string) {
	if s.Events == nil {
		return
	}
	event := models.WalkEvent{
		Name:       name,
		BookingID:  bookingID,
		ActorID:    actorID,
		OccurredAt: time.Now(),
		Data:       data,
	}
	if err := s.Events.Publish(ctx, event); err != nil && s.Logger != nil {
		s.Logger.Warn("failed to publish walk event",
			zap.String("event", name),
			zap.String("bookingId", bookingID),
			zap.Error(err))
	}
}
