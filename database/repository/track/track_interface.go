package trackRepo

import (
	"context"
	"errors"
	"time"

	"petmily/models"
)

// ErrNoPoints means no track point exists yet for the booking.
var ErrNoPoints = errors.New("no track points")

// TrackRepository is the append-only store of GPS samples per booking.
// Points are never mutated or deleted during an active session; ordering is
// by capture timestamp.
type TrackRepository interface {
	// Append durably stores one accepted point before returning.
	Append(ctx context.Context, point *models.TrackPoint) error

	// QueryAfter returns points with timestamp strictly greater than the
	// cursor, ascending. Safe to call repeatedly with an advancing cursor.
	QueryAfter(ctx context.Context, bookingID string, after time.Time) ([]models.TrackPoint, error)

	// Latest returns the most recent point, or ErrNoPoints.
	Latest(ctx context.Context, bookingID string) (*models.TrackPoint, error)

	// ListByBooking returns the full ordered sequence, ascending.
	ListByBooking(ctx context.Context, bookingID string) ([]models.TrackPoint, error)

	CountByBooking(ctx context.Context, bookingID string) (int64, error)
}
