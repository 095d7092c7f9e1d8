package booking

import (
	"context"

	"petmily/models"
	"petmily/services/walk"
)

// Get returns a booking to one of its participants.
func (s *DefaultBookingService) Get(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.IsParticipantOf(booking) {
		return nil, walk.NewForbidden("actor is not a participant of this booking")
	}
	return booking, nil
}

// ListForUser returns the actor's bookings as an owner.
func (s *DefaultBookingService) ListForUser(ctx context.Context, actor models.Actor) ([]models.Booking, error) {
	return s.Repo.ListByUser(ctx, actor.ID)
}

// ListForWalker returns the actor's bookings as a walker.
func (s *DefaultBookingService) ListForWalker(ctx context.Context, actor models.Actor) ([]models.Booking, error) {
	return s.Repo.ListByWalker(ctx, actor.ID)
}

// ListOpenRequests returns unclaimed open requests for walkers to browse.
func (s *DefaultBookingService) ListOpenRequests(ctx context.Context) ([]models.Booking, error) {
	return s.Repo.ListOpenRequests(ctx)
}

func (s *DefaultBookingService) load(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return booking, nil
}

func (s *DefaultBookingService) requireWalker(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.IsWalkerOf(booking) {
		return nil, walk.NewForbidden("only the assigned walker may perform this action")
	}
	return booking, nil
}
