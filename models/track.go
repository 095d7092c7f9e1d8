package models

import "time"

// TrackKind classifies a GPS sample within the walk.
type TrackKind string

const (
	TrackStart      TrackKind = "START"
	TrackWalking    TrackKind = "WALKING"
	TrackEnd        TrackKind = "END"
	TrackCheckpoint TrackKind = "CHECKPOINT"
)

// TrackPoint is one GPS sample captured during an active walk. Points are
// immutable once written and ordered by timestamp per booking.
type TrackPoint struct {
	ID        string    `bson:"id" json:"id"`
	BookingID string    `bson:"booking_id" json:"bookingId"`
	Latitude  float64   `bson:"latitude" json:"latitude"`
	Longitude float64   `bson:"longitude" json:"longitude"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Accuracy  float64   `bson:"accuracy,omitempty" json:"accuracy,omitempty"` // Reported GPS accuracy in meters
	Kind      TrackKind `bson:"track_type" json:"trackType"`
	SpeedMS   float64   `bson:"speed,omitempty" json:"speed,omitempty"` // Instantaneous speed as reported by the device
	Altitude  float64   `bson:"altitude,omitempty" json:"altitude,omitempty"`
}

// GeoPoint is a bare latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// TrackRequest is one sample pushed by the walker client during a walk.
type TrackRequest struct {
	Latitude  float64    `json:"latitude" binding:"required"`
	Longitude float64    `json:"longitude" binding:"required"`
	Timestamp *time.Time `json:"timestamp"` // Defaults to server time when absent
	Accuracy  float64    `json:"accuracy"`
	Kind      TrackKind  `json:"trackType"` // Defaults to WALKING
	SpeedMS   float64    `json:"speed"`
	Altitude  float64    `json:"altitude"`
}
