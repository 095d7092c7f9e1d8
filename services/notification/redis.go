package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"petmily/models"

	"github.com/go-redis/redis/v8"
)

const (
	// EventChannel carries every walk domain event.
	EventChannel = "petmily.walk.events"
	// trackChannelPrefix fans realtime location updates out per booking.
	trackChannelPrefix = "petmily.walk.track."
)

// RedisEventPublisher publishes events over Redis pub/sub. Subscribers
// (notification fan-out, live-map websockets) live outside this service.
type RedisEventPublisher struct {
	client *redis.Client
}

// NewRedisEventPublisher creates a publisher on the given client.
func NewRedisEventPublisher(client *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{client: client}
}

var _ EventPublisher = (*RedisEventPublisher)(nil)

// Publish emits one domain event onto the shared events channel.
func (p *RedisEventPublisher) Publish(ctx context.Context, event models.WalkEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal walk event: %w", err)
	}
	if err := p.client.Publish(ctx, EventChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish walk event: %w", err)
	}
	return nil
}

// PublishTrackUpdate emits a location sample onto the booking's own channel.
func (p *RedisEventPublisher) PublishTrackUpdate(ctx context.Context, point models.TrackPoint) error {
	payload, err := json.Marshal(point)
	if err != nil {
		return fmt.Errorf("failed to marshal track point: %w", err)
	}
	channel := trackChannelPrefix + point.BookingID
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish track update: %w", err)
	}
	return nil
}
