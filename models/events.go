package models

import "time"

// Domain event names emitted by the walk engine. Delivery to end users is the
// notification collaborator's responsibility.
const (
	EventWalkStarted         = "walk.started"
	EventWalkCompleted       = "walk.completed"
	EventTerminationProposed = "termination.proposed"
	EventTerminationResolved = "termination.resolved"
	EventEmergencyInitiated  = "emergency.initiated"
	EventWalkReminder        = "walk.reminder"
)

// WalkEvent is the envelope published for every walk domain event.
type WalkEvent struct {
	Name       string            `json:"name"`
	BookingID  string            `json:"bookingId"`
	ActorID    string            `json:"actorId,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
	Data       map[string]string `json:"data,omitempty"`
}

// ReminderPayload is the asynq task body for a scheduled walk reminder.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	WalkerID  string `json:"walkerId"`
	FireDate  string `json:"fireDate"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

// EmergencyType selects the dispatch target of an emergency call.
type EmergencyType string

const (
	EmergencyPolice   EmergencyType = "POLICE"
	EmergencyFire     EmergencyType = "FIRE"
	EmergencyPersonal EmergencyType = "EMERGENCY_CONTACT"
)

// EmergencyRequest asks for a dispatch contact during an active walk.
type EmergencyRequest struct {
	Type        EmergencyType `json:"emergencyType" binding:"required"`
	Location    string        `json:"location"`
	Description string        `json:"description"`
}
