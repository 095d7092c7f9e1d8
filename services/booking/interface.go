package booking

import (
	"context"

	bookingRepo "petmily/database/repository/booking"
	"petmily/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// BookingService owns the pre-walk half of the booking lifecycle: creation,
// confirmation, rejection, cancellation and the open-request application
// flow. In-walk transitions belong to the walk service.
type BookingService interface {
	Create(ctx context.Context, actor models.Actor, req models.BookingRequest) (*models.Booking, error)
	Get(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error)
	ListForUser(ctx context.Context, actor models.Actor) ([]models.Booking, error)
	ListForWalker(ctx context.Context, actor models.Actor) ([]models.Booking, error)
	ListOpenRequests(ctx context.Context) ([]models.Booking, error)

	Confirm(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error)
	Reject(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID string, actor models.Actor, reason string) (*models.Booking, error)
	ApplyToOpenRequest(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	Terminations TerminationInvalidator
	Reminders    *asynq.Client
	Logger       *zap.Logger
}

// TerminationInvalidator lets cancellation discard a pending early-end
// request without importing the walk engine.
type TerminationInvalidator interface {
	InvalidatePending(ctx context.Context, bookingID string) error
}

var _ BookingService = (*DefaultBookingService)(nil)
