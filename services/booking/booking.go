package booking

import (
	"context"
	"fmt"
	"time"

	"petmily/models"
	"petmily/services/tasks"
	"petmily/services/walk"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Create places a new booking. A walker-selection booking names its walker
// up front; an open request starts unassigned and waits for applications.
// The price arrives agreed from the pricing collaborator and is stored,
// never recomputed.
func (s *DefaultBookingService) Create(ctx context.Context, actor models.Actor, req models.BookingRequest) (*models.Booking, error) {
	method := req.Method
	if method == "" {
		method = models.MethodWalkerSelection
	}

	switch method {
	case models.MethodWalkerSelection:
		if req.WalkerID == "" {
			return nil, walk.NewPreconditionFailed("walker id is required for walker selection booking")
		}
	case models.MethodOpenRequest:
		if req.PickupLocation == "" || req.PickupAddress == "" {
			return nil, walk.NewPreconditionFailed("pickup location and address are required for open request")
		}
		req.WalkerID = ""
	default:
		return nil, walk.NewPreconditionFailed(fmt.Sprintf("invalid booking method %q", method))
	}

	now := time.Now()
	booking := &models.Booking{
		ID:               uuid.New().String(),
		UserID:           actor.ID,
		WalkerID:         req.WalkerID,
		PetID:            req.PetID,
		Date:             req.Date,
		Duration:         req.Duration,
		Status:           models.BookingPending,
		Method:           method,
		TotalPrice:       req.TotalPrice,
		Notes:            req.Notes,
		EmergencyContact: req.EmergencyContact,
		IsRegularPackage: req.IsRegularPackage,
		PackageFrequency: req.PackageFrequency,
		PickupLocation:   req.PickupLocation,
		PickupAddress:    req.PickupAddress,
		DropoffLocation:  req.DropoffLocation,
		DropoffAddress:   req.DropoffAddress,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Repo.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Confirm is the walker accepting the engagement. Both a direct PENDING
// booking and a WALKER_APPLIED open request confirm the same way.
func (s *DefaultBookingService) Confirm(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	booking, err := s.requireWalker(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransition(models.BookingConfirmed) {
		return nil, walk.NewInvalidState(fmt.Sprintf("cannot confirm a booking in status %s", booking.Status))
	}

	updated, err := s.Repo.UpdateStatus(ctx, bookingID, booking.Status, models.BookingConfirmed, nil)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	s.scheduleReminder(updated)
	return updated, nil
}

// Reject is the walker declining a pending engagement.
func (s *DefaultBookingService) Reject(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	booking, err := s.requireWalker(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransition(models.BookingRejected) {
		return nil, walk.NewInvalidState(fmt.Sprintf("cannot reject a booking in status %s", booking.Status))
	}

	updated, err := s.Repo.UpdateStatus(ctx, bookingID, booking.Status, models.BookingRejected, nil)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return updated, nil
}

// Cancel is the owner withdrawing before the walk starts. An in-progress
// walk cannot be cancelled; it has to go through the termination
// negotiation instead. Any pending termination request is invalidated.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID string, actor models.Actor, reason string) (*models.Booking, error) {
	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.IsOwnerOf(booking) {
		return nil, walk.NewForbidden("only the booking owner can cancel")
	}
	if booking.Status == models.BookingInProgress {
		return nil, walk.NewInvalidState("an active walk must be ended through termination, not cancellation")
	}
	if !booking.Status.CanTransition(models.BookingCancelled) {
		return nil, walk.NewInvalidState(fmt.Sprintf("cannot cancel a booking in status %s", booking.Status))
	}

	set := map[string]interface{}{}
	if reason != "" {
		notes := booking.Notes
		if notes != "" {
			notes += "\n"
		}
		set["notes"] = notes + "[cancelled] " + reason
	}

	updated, err := s.Repo.UpdateStatus(ctx, bookingID, booking.Status, models.BookingCancelled, set)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	if s.Terminations != nil {
		if err := s.Terminations.InvalidatePending(ctx, bookingID); err != nil && s.Logger != nil {
			s.Logger.Warn("failed to invalidate pending termination request",
				zap.String("bookingId", bookingID), zap.Error(err))
		}
	}
	return updated, nil
}

// ApplyToOpenRequest claims an unassigned open request for the walker. The
// first applicant wins; the owner then confirms or the walker withdraws via
// rejection.
func (s *DefaultBookingService) ApplyToOpenRequest(ctx context.Context, bookingID string, actor models.Actor) (*models.Booking, error) {
	if actor.Role != models.RoleWalker {
		return nil, walk.NewForbidden("only walkers can apply to open requests")
	}

	booking, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Method != models.MethodOpenRequest {
		return nil, walk.NewInvalidState("booking is not an open request")
	}

	updated, err := s.Repo.AssignWalker(ctx, bookingID, actor.ID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return updated, nil
}

// scheduleReminder enqueues a pre-walk reminder task, best effort.
func (s *DefaultBookingService) scheduleReminder(b *models.Booking) {
	if s.Reminders == nil {
		return
	}
	fireAt := b.Date.Add(-30 * time.Minute)
	if fireAt.Before(time.Now()) {
		return
	}

	payload := models.ReminderPayload{
		BookingID: b.ID,
		UserID:    b.UserID,
		WalkerID:  b.WalkerID,
		FireDate:  fireAt.Format(time.RFC3339),
		Title:     "Upcoming walk",
		Body:      fmt.Sprintf("Your walk booking starts at %s", b.Date.Format(time.Kitchen)),
	}
	task, opts, err := tasks.NewWalkReminderTask(payload, fireAt)
	if err == nil {
		_, err = s.Reminders.Enqueue(task, opts...)
	}
	if err != nil && s.Logger != nil {
		s.Logger.Warn("failed to schedule walk reminder",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
}
