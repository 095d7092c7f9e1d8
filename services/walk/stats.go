package walk

import (
	"time"

	"petmily/models"
	"petmily/utils"
)

// ComputeWalkStats derives the aggregate statistics of an ordered track.
// A walk with fewer than two points is valid and yields all-zero statistics
// rather than an error.
func ComputeWalkStats(points []models.TrackPoint) models.WalkStats {
	if len(points) < 2 {
		stats := models.WalkStats{PointCount: len(points)}
		if len(points) == 1 {
			t := points[0].Timestamp
			stats.StartTime = &t
			end := t
			stats.EndTime = &end
		}
		return stats
	}

	var totalDistance float64
	maxSpeed := 0.0

	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		segment := utils.HaversineM(prev.Latitude, prev.Longitude, curr.Latitude, curr.Longitude)
		totalDistance += segment

		// Per-point speed: prefer the device-reported value, fall back to
		// the derived segment speed.
		speed := curr.SpeedMS
		if speed == 0 {
			if elapsed := curr.Timestamp.Sub(prev.Timestamp).Seconds(); elapsed > 0 {
				speed = segment / elapsed
			}
		}
		if speed > maxSpeed {
			maxSpeed = speed
		}
	}
	if points[0].SpeedMS > maxSpeed {
		maxSpeed = points[0].SpeedMS
	}

	start := points[0].Timestamp
	end := points[len(points)-1].Timestamp
	duration := end.Sub(start)

	avgSpeed := 0.0
	if duration > 0 {
		avgSpeed = totalDistance / duration.Seconds()
	}

	return models.WalkStats{
		TotalDistanceM:  totalDistance,
		DurationSeconds: int64(duration / time.Second),
		AverageSpeedMS:  avgSpeed,
		MaxSpeedMS:      maxSpeed,
		PointCount:      len(points),
		StartTime:       &start,
		EndTime:         &end,
	}
}
