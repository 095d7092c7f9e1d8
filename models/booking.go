package models

import "time"

// BookingStatus is the authoritative lifecycle state of a walk booking.
type BookingStatus string

const (
	BookingPending       BookingStatus = "PENDING"
	BookingWalkerApplied BookingStatus = "WALKER_APPLIED"
	BookingConfirmed     BookingStatus = "CONFIRMED"
	BookingInProgress    BookingStatus = "IN_PROGRESS"
	BookingCompleted     BookingStatus = "COMPLETED"
	BookingCancelled     BookingStatus = "CANCELLED"
	BookingRejected      BookingStatus = "REJECTED"
)

// BookingMethod distinguishes a direct walker-selection booking from an
// open request that walkers apply to.
type BookingMethod string

const (
	MethodWalkerSelection BookingMethod = "WALKER_SELECTION"
	MethodOpenRequest     BookingMethod = "OPEN_REQUEST"
)

// bookingTransitions is the single transition table for booking statuses.
// Every status change in the system goes through CanTransition; there is no
// other place where legality is decided.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:       {BookingWalkerApplied, BookingConfirmed, BookingCancelled, BookingRejected},
	BookingWalkerApplied: {BookingConfirmed, BookingCancelled, BookingRejected},
	BookingConfirmed:     {BookingInProgress, BookingCancelled},
	BookingInProgress:    {BookingCompleted},
	BookingCompleted:     {},
	BookingCancelled:     {},
	BookingRejected:      {},
}

// CanTransition reports whether moving from s to target is a legal booking
// status change.
func (s BookingStatus) CanTransition(target BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist from s.
func (s BookingStatus) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

// Booking represents one walk engagement between an owner and a walker.
// Cancellation is a status, not a deletion: booking documents are only ever
// removed by retention policy.
type Booking struct {
	ID               string        `bson:"id" json:"id"`                                   // Unique booking identifier (UUID)
	UserID           string        `bson:"user_id" json:"userId"`                          // Owner who placed the booking
	WalkerID         string        `bson:"walker_id" json:"walkerId"`                      // Assigned walker; empty while an open request is unclaimed
	PetID            string        `bson:"pet_id" json:"petId"`                            // Pet being walked
	Date             time.Time     `bson:"date" json:"date"`                               // Scheduled start
	Duration         int           `bson:"duration" json:"duration"`                       // Planned duration in minutes
	Status           BookingStatus `bson:"status" json:"status"`                           //
	Method           BookingMethod `bson:"booking_method" json:"bookingMethod"`            //
	TotalPrice       float64       `bson:"total_price" json:"totalPrice"`                  // Agreed price, supplied by the pricing collaborator
	Notes            string        `bson:"notes,omitempty" json:"notes,omitempty"`         //
	EmergencyContact string        `bson:"emergency_contact,omitempty" json:"emergencyContact,omitempty"`
	IsRegularPackage bool          `bson:"is_regular_package" json:"isRegularPackage"`     //
	PackageFrequency string        `bson:"package_frequency,omitempty" json:"packageFrequency,omitempty"`
	PickupLocation   string        `bson:"pickup_location,omitempty" json:"pickupLocation,omitempty"`
	PickupAddress    string        `bson:"pickup_address,omitempty" json:"pickupAddress,omitempty"`
	DropoffLocation  string        `bson:"dropoff_location,omitempty" json:"dropoffLocation,omitempty"`
	DropoffAddress   string        `bson:"dropoff_address,omitempty" json:"dropoffAddress,omitempty"`
	CreatedAt        time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time     `bson:"updated_at" json:"updatedAt"`
}

// BookingRequest is the payload for creating a booking. The agreed price is
// computed upstream and passed in; this service never reprices.
type BookingRequest struct {
	WalkerID         string        `json:"walkerId"`
	PetID            string        `json:"petId" binding:"required"`
	Date             time.Time     `json:"date" binding:"required"`
	Duration         int           `json:"duration" binding:"required,gt=0"`
	Method           BookingMethod `json:"bookingMethod"`
	TotalPrice       float64       `json:"totalPrice" binding:"required,gt=0"`
	Notes            string        `json:"notes"`
	EmergencyContact string        `json:"emergencyContact"`
	IsRegularPackage bool          `json:"isRegularPackage"`
	PackageFrequency string        `json:"packageFrequency"`
	PickupLocation   string        `json:"pickupLocation"`
	PickupAddress    string        `json:"pickupAddress"`
	DropoffLocation  string        `json:"dropoffLocation"`
	DropoffAddress   string        `json:"dropoffAddress"`
}
