package walk

import (
	"context"
	"errors"
	"fmt"
	"time"

	walkRepo "petmily/database/repository/walk"
	"petmily/models"

	"github.com/google/uuid"
)

// ProposeTermination opens an early-end negotiation. Either party of an
// IN_PROGRESS walk may propose; at most one request can be pending per
// booking at a time.
func (s *DefaultWalkService) ProposeTermination(ctx context.Context, bookingID string, actor models.Actor, req models.ProposeTerminationRequest) (*models.TerminationRequest, error) {
	booking, err := s.requireParticipant(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.BookingInProgress {
		return nil, NewInvalidState("can only request termination for walks in progress")
	}

	// An expired pending request no longer blocks a new proposal.
	if pending, err := s.pendingRequest(ctx, bookingID); err != nil {
		return nil, err
	} else if pending != nil {
		return nil, NewConflict("a termination request is already pending for this booking")
	}

	now := time.Now()
	request := &models.TerminationRequest{
		ID:          uuid.New().String(),
		BookingID:   bookingID,
		RequesterID: actor.ID,
		Reason:      req.Reason,
		Status:      models.TerminationPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.Policy.TerminationExpiry),
	}
	if err := s.Terminations.Create(ctx, request); err != nil {
		if errors.Is(err, walkRepo.ErrConflict) {
			return nil, NewConflict("a termination request is already pending for this booking")
		}
		return nil, err
	}

	s.publish(ctx, models.EventTerminationProposed, bookingID, actor.ID, map[string]string{
		"reason": req.Reason,
	})
	return request, nil
}

// ResolveTermination is the counterpart's answer. Accepting completes the
// walk early: the detail is marked TERMINATED_EARLY with the statistics of
// the partial track frozen as-is; rejecting discards the request and the
// walk continues.
func (s *DefaultWalkService) ResolveTermination(ctx context.Context, bookingID string, actor models.Actor, req models.ResolveTerminationRequest) (*models.TerminationRequest, error) {
	booking, err := s.requireParticipant(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}

	pending, err := s.pendingRequest(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, NewNotFound("no pending termination request for this booking")
	}
	if pending.RequesterID == actor.ID && !actor.IsAdmin() {
		return nil, NewForbidden("the requester cannot resolve their own termination proposal")
	}

	var resolved *models.TerminationRequest
	switch req.Decision {
	case models.DecisionAccepted:
		resolved, err = s.acceptTermination(ctx, booking, pending, req.Response)
	case models.DecisionRejected:
		resolved, err = s.Terminations.Resolve(ctx, pending.ID, models.TerminationRejected, req.Response, time.Now())
		if err != nil {
			err = s.mapWalkErr(err)
		}
	default:
		return nil, NewPreconditionFailed(fmt.Sprintf("invalid decision %q", req.Decision))
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, models.EventTerminationResolved, bookingID, actor.ID, map[string]string{
		"decision": string(req.Decision),
	})
	return resolved, nil
}

// acceptTermination drives the accepted negotiation through the completion
// path: statistics of whatever track exists are frozen and the booking lands
// in COMPLETED with the detail marked TERMINATED_EARLY. The request is
// resolved inside the same finalize transaction, so a lost race leaves it
// PENDING rather than consumed with nothing applied.
func (s *DefaultWalkService) acceptTermination(ctx context.Context, booking *models.Booking, pending *models.TerminationRequest, response string) (*models.TerminationRequest, error) {
	points, err := s.Tracks.ListByBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	stats := ComputeWalkStats(points)

	resolvedAt := time.Now()
	notes := fmt.Sprintf("[termination] requested by %s: %s", pending.RequesterID, pending.Reason)
	if _, err := s.Details.FinalizeWalk(ctx, walkRepo.FinalizeParams{
		BookingID:        booking.ID,
		FromStatus:       models.BookingInProgress,
		DetailStatus:     models.WalkTerminatedEarly,
		ActualEndTime:    resolvedAt,
		Stats:            stats,
		AppendNotes:      notes,
		ResolveRequestID: pending.ID,
		ResolveResponse:  response,
	}); err != nil {
		return nil, s.mapWalkErr(err)
	}

	resolved := *pending
	resolved.Status = models.TerminationAccepted
	resolved.Response = response
	resolved.ResolvedAt = &resolvedAt
	return &resolved, nil
}

// pendingRequest returns the live pending request for a booking, expiring a
// stale one on the way. Expiry is lazy: it happens on the next read instead
// of a background timer.
func (s *DefaultWalkService) pendingRequest(ctx context.Context, bookingID string) (*models.TerminationRequest, error) {
	pending, err := s.Terminations.GetPendingByBooking(ctx, bookingID)
	if errors.Is(err, walkRepo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if pending.ExpiredAt(time.Now()) {
		if err := s.Terminations.Expire(ctx, pending.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return pending, nil
}
