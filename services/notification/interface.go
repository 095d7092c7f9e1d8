package notification

import (
	"context"

	"petmily/models"
)

// EventPublisher emits walk domain events for the notification collaborator.
// Delivery to end users (push, chat, email) happens outside this service;
// the contract here is fire-and-forget publication.
type EventPublisher interface {
	Publish(ctx context.Context, event models.WalkEvent) error
	PublishTrackUpdate(ctx context.Context, point models.TrackPoint) error
}
