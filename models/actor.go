package models

// Role is the closed set of capabilities an authenticated caller can hold.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleWalker Role = "walker"
	RoleAdmin  Role = "admin"
)

// Actor is the authenticated identity attached to every operation. Identity
// and credential checking belong to the auth collaborator; this service only
// checks the actor's relationship to a booking.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsAdmin reports whether the actor carries the admin capability.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsOwnerOf reports whether the actor is the booking's owner.
func (a Actor) IsOwnerOf(b *Booking) bool { return a.ID == b.UserID }

// IsWalkerOf reports whether the actor is the booking's assigned walker.
func (a Actor) IsWalkerOf(b *Booking) bool { return b.WalkerID != "" && a.ID == b.WalkerID }

// IsParticipantOf reports whether the actor is either party of the booking.
func (a Actor) IsParticipantOf(b *Booking) bool { return a.IsOwnerOf(b) || a.IsWalkerOf(b) }

// Counterpart returns the user id of the other party of the booking, or ""
// when the actor is not a participant.
func (a Actor) Counterpart(b *Booking) string {
	switch a.ID {
	case b.UserID:
		return b.WalkerID
	case b.WalkerID:
		return b.UserID
	}
	return ""
}
