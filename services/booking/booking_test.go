package booking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingRepo "petmily/database/repository/booking"
	"petmily/models"
	"petmily/services/booking"
	"petmily/services/walk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	owner   = models.Actor{ID: "owner-1", Role: models.RoleOwner}
	walker  = models.Actor{ID: "walker-1", Role: models.RoleWalker}
	walker2 = models.Actor{ID: "walker-2", Role: models.RoleWalker}
)

// memBookingRepo is an in-memory BookingRepository with CAS semantics.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

var _ bookingRepo.BookingRepository = (*memBookingRepo)(nil)

func (r *memBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *b
	r.bookings[b.ID] = &copied
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListByWalker(_ context.Context, walkerID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.WalkerID == walkerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListOpenRequests(_ context.Context) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Method == models.MethodOpenRequest && b.Status == models.BookingPending && b.WalkerID == "" {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus, set map[string]interface{}) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if b.Status != from {
		return nil, bookingRepo.ErrConflict
	}
	b.Status = to
	if notes, ok := set["notes"].(string); ok {
		b.Notes = notes
	}
	copied := *b
	return &copied, nil
}

func (r *memBookingRepo) AssignWalker(_ context.Context, id, walkerID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if b.Status != models.BookingPending || b.Method != models.MethodOpenRequest || b.WalkerID != "" {
		return nil, bookingRepo.ErrConflict
	}
	b.WalkerID = walkerID
	b.Status = models.BookingWalkerApplied
	copied := *b
	return &copied, nil
}

// fakeInvalidator records invalidated booking ids.
type fakeInvalidator struct {
	mu        sync.Mutex
	invalided []string
}

func (f *fakeInvalidator) InvalidatePending(_ context.Context, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalided = append(f.invalided, bookingID)
	return nil
}

func newService() (*booking.DefaultBookingService, *memBookingRepo, *fakeInvalidator) {
	repo := newMemBookingRepo()
	inv := &fakeInvalidator{}
	svc := &booking.DefaultBookingService{
		Repo:         repo,
		Terminations: inv,
		Logger:       zap.NewNop(),
	}
	return svc, repo, inv
}

func walkerSelectionRequest() models.BookingRequest {
	return models.BookingRequest{
		WalkerID:         walker.ID,
		PetID:            "pet-1",
		Date:             time.Now().Add(24 * time.Hour),
		Duration:         60,
		TotalPrice:       30000,
		EmergencyContact: "010-1234-5678",
	}
}

func TestCreateWalkerSelectionBooking(t *testing.T) {
	svc, _, _ := newService()

	created, err := svc.Create(context.Background(), owner, walkerSelectionRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, owner.ID, created.UserID)
	assert.Equal(t, walker.ID, created.WalkerID)
	assert.Equal(t, models.BookingPending, created.Status)
	assert.Equal(t, models.MethodWalkerSelection, created.Method)
	// The agreed price is stored untouched.
	assert.Equal(t, 30000.0, created.TotalPrice)
}

func TestCreateWalkerSelectionRequiresWalker(t *testing.T) {
	svc, _, _ := newService()

	req := walkerSelectionRequest()
	req.WalkerID = ""
	_, err := svc.Create(context.Background(), owner, req)
	assert.Equal(t, walk.CodePreconditionFailed, walk.CodeOf(err))
}

func TestCreateOpenRequest(t *testing.T) {
	svc, _, _ := newService()

	req := walkerSelectionRequest()
	req.Method = models.MethodOpenRequest
	req.PickupLocation = "37.5665,126.9780"
	req.PickupAddress = "City Hall Plaza"

	created, err := svc.Create(context.Background(), owner, req)
	require.NoError(t, err)
	// An open request always starts unassigned, even if a walker id slipped
	// into the payload.
	assert.Empty(t, created.WalkerID)
	assert.Equal(t, models.MethodOpenRequest, created.Method)

	open, err := svc.ListOpenRequests(context.Background())
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestCreateOpenRequestNeedsPickup(t *testing.T) {
	svc, _, _ := newService()

	req := walkerSelectionRequest()
	req.Method = models.MethodOpenRequest
	_, err := svc.Create(context.Background(), owner, req)
	assert.Equal(t, walk.CodePreconditionFailed, walk.CodeOf(err))
}

func TestConfirm(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, walkerSelectionRequest())
	require.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, created.ID, walker)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, confirmed.Status)

	// A second confirm is an invalid transition.
	_, err = svc.Confirm(ctx, created.ID, walker)
	assert.Equal(t, walk.CodeInvalidState, walk.CodeOf(err))
}

func TestConfirmOnlyByAssignedWalker(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, walkerSelectionRequest())
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, created.ID, walker2)
	assert.Equal(t, walk.CodeForbidden, walk.CodeOf(err))
	_, err = svc.Confirm(ctx, created.ID, owner)
	assert.Equal(t, walk.CodeForbidden, walk.CodeOf(err))
}

func TestReject(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, walkerSelectionRequest())
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, created.ID, walker)
	require.NoError(t, err)
	assert.Equal(t, models.BookingRejected, rejected.Status)

	// Rejection is terminal.
	_, err = svc.Confirm(ctx, created.ID, walker)
	assert.Equal(t, walk.CodeInvalidState, walk.CodeOf(err))
}

func TestCancel(t *testing.T) {
	svc, _, inv := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, walkerSelectionRequest())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, created.ID, owner, "plans changed")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)
	assert.Contains(t, cancelled.Notes, "[cancelled] plans changed")
	assert.Contains(t, inv.invalided, created.ID)
}

func TestCancelOwnerOnly(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, walkerSelectionRequest())
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, created.ID, walker, "")
	assert.Equal(t, walk.CodeForbidden, walk.CodeOf(err))
}

func TestCancelInProgressRefused(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, walkerSelectionRequest())
	require.NoError(t, err)
	_, err = svc.Confirm(ctx, created.ID, walker)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, created.ID, models.BookingConfirmed, models.BookingInProgress, nil)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, created.ID, owner, "too late")
	assert.Equal(t, walk.CodeInvalidState, walk.CodeOf(err))
}

func TestApplyToOpenRequest(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	req := walkerSelectionRequest()
	req.Method = models.MethodOpenRequest
	req.PickupLocation = "37.5665,126.9780"
	req.PickupAddress = "City Hall Plaza"
	created, err := svc.Create(ctx, owner, req)
	require.NoError(t, err)

	applied, err := svc.ApplyToOpenRequest(ctx, created.ID, walker)
	require.NoError(t, err)
	assert.Equal(t, walker.ID, applied.WalkerID)
	assert.Equal(t, models.BookingWalkerApplied, applied.Status)

	// First applicant wins; a second application conflicts.
	_, err = svc.ApplyToOpenRequest(ctx, created.ID, walker2)
	assert.Equal(t, walk.CodeConflict, walk.CodeOf(err))

	// The claimed request is no longer listed as open.
	open, err := svc.ListOpenRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	// The applicant can now confirm.
	confirmed, err := svc.Confirm(ctx, created.ID, walker)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, confirmed.Status)
}

func TestApplyToOpenRequestWalkersOnly(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	req := walkerSelectionRequest()
	req.Method = models.MethodOpenRequest
	req.PickupLocation = "37.5665,126.9780"
	req.PickupAddress = "City Hall Plaza"
	created, err := svc.Create(ctx, owner, req)
	require.NoError(t, err)

	_, err = svc.ApplyToOpenRequest(ctx, created.ID, owner)
	assert.Equal(t, walk.CodeForbidden, walk.CodeOf(err))
}

func TestApplyToDirectBookingRefused(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, walkerSelectionRequest())
	require.NoError(t, err)

	_, err = svc.ApplyToOpenRequest(ctx, created.ID, walker2)
	assert.Equal(t, walk.CodeInvalidState, walk.CodeOf(err))
}

func TestGetParticipantOnly(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, owner, walkerSelectionRequest())
	require.NoError(t, err)

	_, err = svc.Get(ctx, created.ID, owner)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, created.ID, walker)
	assert.NoError(t, err)

	stranger := models.Actor{ID: "nosy", Role: models.RoleOwner}
	_, err = svc.Get(ctx, created.ID, stranger)
	assert.Equal(t, walk.CodeForbidden, walk.CodeOf(err))

	_, err = svc.Get(ctx, "missing", owner)
	assert.Equal(t, walk.CodeNotFound, walk.CodeOf(err))
}
