package walk

import (
	"context"
	"strings"

	"petmily/models"
)

// Jurisdiction emergency numbers.
const (
	policeNumber = "112"
	fireNumber   = "119"
)

// EmergencyContact resolves the dispatch target for an emergency during a
// walk. It is stateless with respect to the booking: nothing is mutated,
// only the emergency.initiated event is emitted for the notification
// collaborator.
func (s *DefaultWalkService) EmergencyContact(ctx context.Context, bookingID string, actor models.Actor, req models.EmergencyRequest) (string, error) {
	booking, err := s.requireParticipant(ctx, bookingID, actor)
	if err != nil {
		return "", err
	}

	var contact string
	switch req.Type {
	case models.EmergencyPolice:
		contact = policeNumber
	case models.EmergencyFire:
		contact = fireNumber
	case models.EmergencyPersonal:
		contact = strings.TrimSpace(booking.EmergencyContact)
		if contact == "" {
			return "", NewPreconditionFailed("no emergency contact set for this booking")
		}
	default:
		return "", NewPreconditionFailed("invalid emergency type")
	}

	s.publish(ctx, models.EventEmergencyInitiated, bookingID, actor.ID, map[string]string{
		"emergencyType": string(req.Type),
		"location":      req.Location,
		"description":   req.Description,
	})
	return contact, nil
}
