package bookingRepo

import (
	"context"
	"errors"

	"petmily/models"
)

// Sentinel errors surfaced by repository implementations. Services translate
// them into caller-facing error codes.
var (
	// ErrNotFound means the referenced booking does not exist.
	ErrNotFound = errors.New("booking not found")
	// ErrConflict means a compare-and-swap update lost a concurrent race:
	// the document exists but its status no longer matches the expected one.
	ErrConflict = errors.New("booking status conflict")
)

// BookingRepository owns persistence of walk bookings. Status changes go
// through UpdateStatus, which commits atomically against the expected
// current status.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListByWalker(ctx context.Context, walkerID string) ([]models.Booking, error)
	ListOpenRequests(ctx context.Context) ([]models.Booking, error)

	// UpdateStatus transitions a booking from the expected status to the
	// target status, optionally applying extra field updates, in a single
	// atomic write. Returns ErrConflict when the booking exists but is no
	// longer in the expected status, ErrNotFound when it does not exist.
	UpdateStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, set map[string]interface{}) (*models.Booking, error)

	// AssignWalker claims an unassigned open request for the given walker,
	// moving it PENDING -> WALKER_APPLIED atomically.
	AssignWalker(ctx context.Context, bookingID, walkerID string) (*models.Booking, error)
}
