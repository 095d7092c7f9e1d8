package walk_test

import (
	"context"
	"testing"
	"time"

	"petmily/models"
	"petmily/services/walk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestTrackOnlyDuringActiveWalk(t *testing.T) {
	env := newTestEnv(t, models.BookingConfirmed)

	_, err := env.svc.IngestTrack(context.Background(), testBookingID, walkerActor, models.TrackRequest{
		Latitude:  37.5665,
		Longitude: 126.9780,
	})
	assert.Equal(t, walk.CodeInvalidState, walk.CodeOf(err))
}

func TestIngestTrackOnlyByWalker(t *testing.T) {
	env := newTestEnv(t, models.BookingConfirmed)
	env.startWalk(t)

	_, err := env.svc.IngestTrack(context.Background(), testBookingID, ownerActor, models.TrackRequest{
		Latitude:  37.5665,
		Longitude: 126.9780,
	})
	assert.Equal(t, walk.CodeForbidden, walk.CodeOf(err))
}

func TestIngestTrackRejectsInvalidCoordinates(t *testing.T) {
	env := newTestEnv(t, models.BookingConfirmed)
	env.startWalk(t)

	_, err := env.svc.IngestTrack(context.Background(), testBookingID, walkerActor, models.TrackRequest{
		Latitude:  91.0,
		Longitude: 126.9780,
	})
	assert.Equal(t, walk.CodePreconditionFailed, walk.CodeOf(err))
}

func TestIngestTrackRejectsImplausibleSpeed(t *testing.T) {
	env := newTestEnv(t, models.BookingConfirmed)
	env.startWalk(t)
	ctx := context.Background()

	t0 := time.Now().Add(-time.Minute)
	_, err := env.svc.IngestTrack(ctx, testBookingID, walkerActor, models.TrackRequest{
		Latitude:  37.5665,
		Longitude: 126.9780,
		Timestamp: &t0,
	})
	require.NoError(t, err)

	// Roughly 1.1 km away one second later, far beyond 45 m/s.
	t1 := t0.Add(time.Second)
	_, err = env.svc.IngestTrack(ctx, testBookingID, walkerActor, models.TrackRequest{
		Latitude:  37.5765,
		Longitude: 126.9780,
		Timestamp: &t1,
	})
	assert.Equal(t, walk.CodeImplausibleMovement, walk.CodeOf(err))

	// The rejected point was discarded and the session continues.
	count, err := env.tracks.CountByBooking(ctx, testBookingID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	t2 := t0.Add(time.Minute)
	_, err = env.svc.IngestTrack(ctx, testBookingID, walkerActor, models.TrackRequest{
		Latitude:  37.5670,
		Longitude: 126.9780,
		Timestamp: &t2,
	})
	assert.NoError(t, err)
}

func TestIngestTrackClockSkew(t *testing.T) {
	env := newTestEnv(t, models.BookingConfirmed)
	env.startWalk(t)
	ctx := context.Background()

	t0 := time.Now()
	_, err := env.svc.IngestTrack(ctx, testBookingID, walkerActor, models.TrackRequest{
		Latitude:  37.5665,
		Longitude: 126.9780,
		Timestamp: &t0,
	})
	require.NoError(t, err)

	// Two seconds backwards is within the five second tolerance.
	tWithin := t0.Add(-2 * time.Second)
	_, err = env.svc.IngestTrack(ctx, testBookingID, walkerActor, models.TrackRequest{
		Latitude:  37.5665,
		Longitude: 126.9780,
		Timestamp: &tWithin,
	})
	assert.NoError(t, err)

	// Ten seconds backwards is not.
	tBeyond := t0.Add(-10 * time.Second)
	_, err = env.svc.IngestTrack(ctx, testBookingID, walkerActor, models.TrackRequest{
		Latitude:  37.5665,
		Longitude: 126.9780,
		Timestamp: &tBeyond,
	})
	assert.Equal(t, walk.CodeImplausibleMovement, walk.CodeOf(err))
}

func TestIngestTrackPublishesRealtimeUpdate(t *testing.T) {
	env := newTestEnv(t, models.BookingConfirmed)
	env.startWalk(t)

	point, err := env.svc.IngestTrack(context.Background(), testBookingID, walkerActor, models.TrackRequest{
		Latitude:  37.5665,
		Longitude: 126.9780,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TrackWalking, point.Kind)

	require.Len(t, env.events.trackUpdates, 1)
	assert.Equal(t, point.ID, env.events.trackUpdates[0].ID)
}

func TestRealtimeTrackReturnsOnlyNewerPoints(t *testing.T) {
	env := newTestEnv(t, models.BookingConfirmed)
	env.startWalk(t)
	ctx := context.Background()

	base := time.Now().Add(-5 * time.Minute)
	var cursor time.Time
	for i := 0; i < 4; i++ {
		ts := base.Add(time.Duration(i) * 30 * time.Second)
		_, err := env.svc.IngestTrack(ctx, testBookingID, walkerActor, models.TrackRequest{
			Latitude:  37.5665 + float64(i)*0.0001,
			Longitude: 126.9780,
			Timestamp: &ts,
		})
		require.NoError(t, err)
		if i == 1 {
			cursor = ts
		}
	}

	// The owner polls with the cursor of the second point.
	points, err := env.svc.RealtimeTrack(ctx, testBookingID, ownerActor, cursor)
	require.NoError(t, err)
	require.Len(t, points, 2)
	for _, p := range points {
		assert.True(t, p.Timestamp.After(cursor))
	}

	// A non-participant cannot watch the track.
	stranger := models.Actor{ID: "nosy", Role: models.RoleOwner}
	_, err = env.svc.RealtimeTrack(ctx, testBookingID, stranger, time.Time{})
	assert.Equal(t, walk.CodeForbidden, walk.CodeOf(err))
}

func TestGetWalkPath(t *testing.T) {
	env := newTestEnv(t, models.BookingConfirmed)
	env.startWalk(t)
	ctx := context.Background()

	base := time.Now().Add(-5 * time.Minute)
	for i := 0; i < 3; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		_, err := env.svc.IngestTrack(ctx, testBookingID, walkerActor, models.TrackRequest{
			Latitude:  37.5665 + float64(i)*0.0005,
			Longitude: 126.9780,
			Timestamp: &ts,
		})
		require.NoError(t, err)
	}

	path, err := env.svc.GetWalkPath(ctx, testBookingID, ownerActor)
	require.NoError(t, err)
	assert.Equal(t, testBookingID, path.BookingID)
	assert.Len(t, path.TrackPoints, 3)
	assert.Equal(t, 3, path.Statistics.PointCount)
	assert.Greater(t, path.Statistics.TotalDistanceM, 0.0)
}

func TestLatestTrack(t *testing.T) {
	env := newTestEnv(t, models.BookingConfirmed)
	env.startWalk(t)
	ctx := context.Background()

	base := time.Now().Add(-2 * time.Minute)
	for i := 0; i < 2; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		_, err := env.svc.IngestTrack(ctx, testBookingID, walkerActor, models.TrackRequest{
			Latitude:  37.5665 + float64(i)*0.0005,
			Longitude: 126.9780,
			Timestamp: &ts,
		})
		require.NoError(t, err)
	}

	point, err := env.svc.LatestTrack(ctx, testBookingID, ownerActor)
	require.NoError(t, err)
	assert.InDelta(t, 37.5670, point.Latitude, 1e-9)

	stranger := models.Actor{ID: "nosy", Role: models.RoleOwner}
	_, err = env.svc.LatestTrack(ctx, testBookingID, stranger)
	assert.Equal(t, walk.CodeForbidden, walk.CodeOf(err))
}

func TestLatestTrackNoPoints(t *testing.T) {
	env := newTestEnv(t, models.BookingConfirmed)
	env.startWalk(t)

	_, err := env.svc.LatestTrack(context.Background(), testBookingID, ownerActor)
	assert.Equal(t, walk.CodeNotFound, walk.CodeOf(err))
}
