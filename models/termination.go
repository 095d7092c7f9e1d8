package models

import "time"

// TerminationStatus is the lifecycle of an early-end negotiation.
type TerminationStatus string

const (
	TerminationPending  TerminationStatus = "PENDING"
	TerminationAccepted TerminationStatus = "ACCEPTED"
	TerminationRejected TerminationStatus = "REJECTED"
	TerminationExpired  TerminationStatus = "EXPIRED"
)

// TerminationDecision is the counterpart's answer to a pending request.
type TerminationDecision string

const (
	DecisionAccepted TerminationDecision = "ACCEPTED"
	DecisionRejected TerminationDecision = "REJECTED"
)

// TerminationRequest is one early-end-of-walk negotiation. At most one
// PENDING request exists per booking at a time.
type TerminationRequest struct {
	ID          string            `bson:"id" json:"id"`
	BookingID   string            `bson:"booking_id" json:"bookingId"`
	RequesterID string            `bson:"requester_id" json:"requesterId"`
	Reason      string            `bson:"reason" json:"reason"`
	Status      TerminationStatus `bson:"status" json:"status"`
	Response    string            `bson:"response,omitempty" json:"response,omitempty"` // Counterpart's free-text response
	CreatedAt   time.Time         `bson:"created_at" json:"createdAt"`
	ExpiresAt   time.Time         `bson:"expires_at" json:"expiresAt"`
	ResolvedAt  *time.Time        `bson:"resolved_at,omitempty" json:"resolvedAt,omitempty"`
}

// ExpiredAt reports whether a still-pending request has outlived its window
// at the given instant. Expiry is evaluated lazily on read; there is no
// background timer.
func (r *TerminationRequest) ExpiredAt(now time.Time) bool {
	return r.Status == TerminationPending && now.After(r.ExpiresAt)
}

// ProposeTerminationRequest is the payload for opening a negotiation.
type ProposeTerminationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ResolveTerminationRequest is the counterpart's answer.
type ResolveTerminationRequest struct {
	Decision TerminationDecision `json:"decision" binding:"required"`
	Response string              `json:"response"`
}
