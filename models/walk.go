package models

import "time"

// WalkStatus tracks what actually happened during a booking's walk,
// independently of the booking's own status.
type WalkStatus string

const (
	WalkNotStarted      WalkStatus = "NOT_STARTED"
	WalkInProgress      WalkStatus = "IN_PROGRESS"
	WalkCompleted       WalkStatus = "COMPLETED"
	WalkTerminatedEarly WalkStatus = "TERMINATED_EARLY"
)

// Terminal reports whether the walk record can no longer change.
func (s WalkStatus) Terminal() bool {
	return s == WalkCompleted || s == WalkTerminatedEarly
}

// PhotoKind names the three mandated verification checkpoints of a walk.
type PhotoKind string

const (
	PhotoStart  PhotoKind = "START"
	PhotoMiddle PhotoKind = "MIDDLE"
	PhotoEnd    PhotoKind = "END"
)

// ValidPhotoKind reports whether k is one of the three checkpoint kinds.
func ValidPhotoKind(k PhotoKind) bool {
	return k == PhotoStart || k == PhotoMiddle || k == PhotoEnd
}

// WalkDetail is the per-booking session record, created lazily when the walk
// actually starts. Exactly one exists per booking once started.
type WalkDetail struct {
	ID              string     `bson:"id" json:"id"`
	BookingID       string     `bson:"booking_id" json:"bookingId"`
	Status          WalkStatus `bson:"status" json:"status"`
	ActualStartTime *time.Time `bson:"actual_start_time,omitempty" json:"actualStartTime,omitempty"`
	ActualEndTime   *time.Time `bson:"actual_end_time,omitempty" json:"actualEndTime,omitempty"`
	StartPhotoURL   string     `bson:"start_photo_url,omitempty" json:"startPhotoUrl,omitempty"`
	MiddlePhotoURL  string     `bson:"middle_photo_url,omitempty" json:"middlePhotoUrl,omitempty"`
	EndPhotoURL     string     `bson:"end_photo_url,omitempty" json:"endPhotoUrl,omitempty"`
	Notes           string     `bson:"notes,omitempty" json:"notes,omitempty"` // Incident / special notes, appended over the session
	Stats           WalkStats  `bson:"stats" json:"stats"`                     // Frozen at completion
	CreatedAt       time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updated_at" json:"updatedAt"`
}

// PhotoURL returns the stored URL for the given checkpoint kind.
func (d *WalkDetail) PhotoURL(kind PhotoKind) string {
	switch kind {
	case PhotoStart:
		return d.StartPhotoURL
	case PhotoMiddle:
		return d.MiddlePhotoURL
	case PhotoEnd:
		return d.EndPhotoURL
	}
	return ""
}

// WalkStats holds the aggregate statistics derived from a booking's track.
type WalkStats struct {
	TotalDistanceM  float64    `bson:"total_distance_m" json:"totalDistanceM"`   // Sum of haversine distances between consecutive points
	DurationSeconds int64      `bson:"duration_seconds" json:"durationSeconds"`  // Last timestamp minus first timestamp
	AverageSpeedMS  float64    `bson:"average_speed_ms" json:"averageSpeedMS"`   // Distance over duration
	MaxSpeedMS      float64    `bson:"max_speed_ms" json:"maxSpeedMS"`           // Max of reported or derived per-point speed
	PointCount      int        `bson:"point_count" json:"pointCount"`            //
	StartTime       *time.Time `bson:"start_time,omitempty" json:"startTime,omitempty"`
	EndTime         *time.Time `bson:"end_time,omitempty" json:"endTime,omitempty"`
}

// WalkEndRequest carries the walker's end-of-walk report.
type WalkEndRequest struct {
	SpecialNotes string `json:"specialNotes"`
}

// PhotoRequest records one checkpoint photo against the walk.
type PhotoRequest struct {
	Kind     PhotoKind `json:"photoType" binding:"required"`
	PhotoURL string    `json:"photoUrl" binding:"required"`
	Location *GeoPoint `json:"location"`
}

// WalkPathResponse is the full ordered track plus its aggregate statistics.
type WalkPathResponse struct {
	BookingID   string       `json:"bookingId"`
	TrackPoints []TrackPoint `json:"trackPoints"`
	Statistics  WalkStats    `json:"statistics"`
}
