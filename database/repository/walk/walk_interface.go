package walkRepo

import (
	"context"
	"errors"
	"time"

	"petmily/models"
)

var (
	// ErrNotFound means the referenced walk detail or termination request
	// does not exist.
	ErrNotFound = errors.New("walk record not found")
	// ErrConflict means a guarded update lost a concurrent race.
	ErrConflict = errors.New("walk record conflict")
)

// FinalizeParams carries everything the completion transaction writes.
type FinalizeParams struct {
	BookingID     string
	FromStatus    models.BookingStatus // Expected booking status (CAS guard)
	DetailStatus  models.WalkStatus    // COMPLETED or TERMINATED_EARLY
	ActualEndTime time.Time
	Stats         models.WalkStats
	AppendNotes   string // Extra walker notes, appended if non-empty

	// ResolveRequestID, when set, marks that PENDING termination request
	// ACCEPTED inside the same transaction. A lost race rolls everything
	// back and the request stays pending.
	ResolveRequestID string
	ResolveResponse  string
}

// WalkDetailRepository owns the per-booking session record.
type WalkDetailRepository interface {
	// CreateIfAbsent inserts the detail for a booking or returns the
	// existing one, so concurrent start calls converge on one record.
	CreateIfAbsent(ctx context.Context, detail *models.WalkDetail) (*models.WalkDetail, error)
	GetByBooking(ctx context.Context, bookingID string) (*models.WalkDetail, error)
	SetPhoto(ctx context.Context, bookingID string, kind models.PhotoKind, url string) (*models.WalkDetail, error)
	AppendNotes(ctx context.Context, bookingID, notes string) error

	// FinalizeWalk commits the booking transition and the detail freeze in
	// one transaction: either both apply or neither does.
	FinalizeWalk(ctx context.Context, p FinalizeParams) (*models.WalkDetail, error)
}

// TerminationRepository owns early-end negotiation requests.
type TerminationRepository interface {
	// Create inserts a new PENDING request. Fails with ErrConflict when a
	// live PENDING request already exists for the booking.
	Create(ctx context.Context, req *models.TerminationRequest) error
	GetPendingByBooking(ctx context.Context, bookingID string) (*models.TerminationRequest, error)

	// Resolve moves a PENDING request to ACCEPTED or REJECTED atomically.
	Resolve(ctx context.Context, requestID string, status models.TerminationStatus, response string, resolvedAt time.Time) (*models.TerminationRequest, error)

	// Expire marks a PENDING request EXPIRED. Losing the race is fine; the
	// caller re-reads afterwards.
	Expire(ctx context.Context, requestID string) error

	// InvalidatePending discards any PENDING request for a booking.
	InvalidatePending(ctx context.Context, bookingID string) error
}
