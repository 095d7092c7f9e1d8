package walk

import (
	"context"
	"errors"

	bookingRepo "petmily/database/repository/booking"
	"petmily/models"
)

// loadBooking fetches the booking and translates repository sentinels into
// caller-facing codes.
func (s *DefaultWalkService) loadBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, NewNotFound("booking not found")
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// requireWalker loads the booking and checks the actor is its assigned
// walker. Admin capability passes every relationship check.
func (s *DefaultWalkService) requireWalker(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.IsWalkerOf(booking) {
		return nil, NewForbidden("only the assigned walker may perform this action")
	}
	return booking, nil
}

// requireParticipant loads the booking and checks the actor is either party.
func (s *DefaultWalkService) requireParticipant(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.IsParticipantOf(booking) {
		return nil, NewForbidden("actor is not a participant of this booking")
	}
	return booking, nil
}
