package walk_test

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingRepo "petmily/database/repository/booking"
	trackRepo "petmily/database/repository/track"
	walkRepo "petmily/database/repository/walk"
	"petmily/models"
)

// fakeBookingRepo is an in-memory BookingRepository with the same CAS
// semantics as the Mongo implementation.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingRepo(bookings ...*models.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
	for _, b := range bookings {
		copied := *b
		r.bookings[b.ID] = &copied
	}
	return r
}

var _ bookingRepo.BookingRepository = (*fakeBookingRepo)(nil)

func (r *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *b
	r.bookings[b.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
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

func (r *fakeBookingRepo) ListByWalker(_ context.Context, walkerID string) ([]models.Booking, error) {
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

func (r *fakeBookingRepo) ListOpenRequests(_ context.Context) ([]models.Booking, error) {
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

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus, set map[string]interface{}) (*models.Booking, error) {
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
	b.UpdatedAt = time.Now()
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) AssignWalker(_ context.Context, id, walkerID string) (*models.Booking, error) {
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

// fakeWalkRepo is an in-memory WalkDetailRepository and
// TerminationRepository. FinalizeWalk applies the booking transition and the
// detail freeze together, mirroring the Mongo transaction.
type fakeWalkRepo struct {
	mu           sync.Mutex
	details      map[string]*models.WalkDetail        // keyed by booking id
	terminations map[string]*models.TerminationRequest // keyed by request id
	bookings     *fakeBookingRepo
}

func newFakeWalkRepo(bookings *fakeBookingRepo) *fakeWalkRepo {
	return &fakeWalkRepo{
		details:      make(map[string]*models.WalkDetail),
		terminations: make(map[string]*models.TerminationRequest),
		bookings:     bookings,
	}
}

var (
	_ walkRepo.WalkDetailRepository  = (*fakeWalkRepo)(nil)
	_ walkRepo.TerminationRepository = (*fakeWalkRepo)(nil)
)

func (r *fakeWalkRepo) CreateIfAbsent(_ context.Context, detail *models.WalkDetail) (*models.WalkDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.details[detail.BookingID]; ok {
		copied := *existing
		return &copied, nil
	}
	copied := *detail
	r.details[detail.BookingID] = &copied
	out := copied
	return &out, nil
}

func (r *fakeWalkRepo) GetByBooking(_ context.Context, bookingID string) (*models.WalkDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.details[bookingID]
	if !ok {
		return nil, walkRepo.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *fakeWalkRepo) SetPhoto(_ context.Context, bookingID string, kind models.PhotoKind, url string) (*models.WalkDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.details[bookingID]
	if !ok {
		return nil, walkRepo.ErrNotFound
	}
	if d.Status.Terminal() {
		return nil, walkRepo.ErrConflict
	}
	switch kind {
	case models.PhotoStart:
		d.StartPhotoURL = url
	case models.PhotoMiddle:
		d.MiddlePhotoURL = url
	case models.PhotoEnd:
		d.EndPhotoURL = url
	}
	d.UpdatedAt = time.Now()
	copied := *d
	return &copied, nil
}

func (r *fakeWalkRepo) AppendNotes(_ context.Context, bookingID, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.details[bookingID]
	if !ok {
		return walkRepo.ErrNotFound
	}
	if d.Notes != "" {
		d.Notes += "\n"
	}
	d.Notes += notes
	return nil
}

func (r *fakeWalkRepo) FinalizeWalk(ctx context.Context, p walkRepo.FinalizeParams) (*models.WalkDetail, error) {
	// Validate every precondition before mutating anything, so a failed
	// finalize leaves the detail and any pending request untouched.
	r.mu.Lock()
	if _, ok := r.details[p.BookingID]; !ok {
		r.mu.Unlock()
		return nil, walkRepo.ErrNotFound
	}
	if p.ResolveRequestID != "" {
		t, ok := r.terminations[p.ResolveRequestID]
		if !ok || t.Status != models.TerminationPending {
			r.mu.Unlock()
			return nil, walkRepo.ErrConflict
		}
	}
	r.mu.Unlock()

	if _, err := r.bookings.UpdateStatus(ctx, p.BookingID, p.FromStatus, models.BookingCompleted, nil); err != nil {
		if err == bookingRepo.ErrNotFound {
			return nil, walkRepo.ErrNotFound
		}
		return nil, walkRepo.ErrConflict
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.details[p.BookingID]
	if p.ResolveRequestID != "" {
		t := r.terminations[p.ResolveRequestID]
		t.Status = models.TerminationAccepted
		t.Response = p.ResolveResponse
		end := p.ActualEndTime
		t.ResolvedAt = &end
	}
	d.Status = p.DetailStatus
	end := p.ActualEndTime
	d.ActualEndTime = &end
	d.Stats = p.Stats
	if p.AppendNotes != "" {
		if d.Notes != "" {
			d.Notes += "\n"
		}
		d.Notes += p.AppendNotes
	}
	d.UpdatedAt = time.Now()
	copied := *d
	return &copied, nil
}

func (r *fakeWalkRepo) Create(_ context.Context, req *models.TerminationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.terminations {
		if t.BookingID == req.BookingID && t.Status == models.TerminationPending {
			return walkRepo.ErrConflict
		}
	}
	copied := *req
	r.terminations[req.ID] = &copied
	return nil
}

func (r *fakeWalkRepo) GetPendingByBooking(_ context.Context, bookingID string) (*models.TerminationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.terminations {
		if t.BookingID == bookingID && t.Status == models.TerminationPending {
			copied := *t
			return &copied, nil
		}
	}
	return nil, walkRepo.ErrNotFound
}

func (r *fakeWalkRepo) Resolve(_ context.Context, requestID string, status models.TerminationStatus, response string, resolvedAt time.Time) (*models.TerminationRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.terminations[requestID]
	if !ok {
		return nil, walkRepo.ErrNotFound
	}
	if t.Status != models.TerminationPending {
		return nil, walkRepo.ErrConflict
	}
	t.Status = status
	t.Response = response
	t.ResolvedAt = &resolvedAt
	copied := *t
	return &copied, nil
}

func (r *fakeWalkRepo) Expire(_ context.Context, requestID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.terminations[requestID]
	if !ok {
		return walkRepo.ErrNotFound
	}
	if t.Status == models.TerminationPending {
		t.Status = models.TerminationExpired
	}
	return nil
}

func (r *fakeWalkRepo) InvalidatePending(_ context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.terminations {
		if t.BookingID == bookingID && t.Status == models.TerminationPending {
			t.Status = models.TerminationExpired
		}
	}
	return nil
}

// fakeTrackRepo is an in-memory append-only track store ordered by
// timestamp.
type fakeTrackRepo struct {
	mu     sync.Mutex
	points map[string][]models.TrackPoint
}

func newFakeTrackRepo() *fakeTrackRepo {
	return &fakeTrackRepo{points: make(map[string][]models.TrackPoint)}
}

var _ trackRepo.TrackRepository = (*fakeTrackRepo)(nil)

func (r *fakeTrackRepo) Append(_ context.Context, point *models.TrackPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pts := append(r.points[point.BookingID], *point)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Timestamp.Before(pts[j].Timestamp) })
	r.points[point.BookingID] = pts
	return nil
}

func (r *fakeTrackRepo) QueryAfter(_ context.Context, bookingID string, after time.Time) ([]models.TrackPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TrackPoint
	for _, p := range r.points[bookingID] {
		if p.Timestamp.After(after) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeTrackRepo) Latest(_ context.Context, bookingID string) (*models.TrackPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pts := r.points[bookingID]
	if len(pts) == 0 {
		return nil, trackRepo.ErrNoPoints
	}
	last := pts[len(pts)-1]
	return &last, nil
}

func (r *fakeTrackRepo) ListByBooking(_ context.Context, bookingID string) ([]models.TrackPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.TrackPoint(nil), r.points[bookingID]...), nil
}

func (r *fakeTrackRepo) CountByBooking(_ context.Context, bookingID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.points[bookingID])), nil
}

// fakeEvents records published events and track updates.
type fakeEvents struct {
	mu           sync.Mutex
	events       []models.WalkEvent
	trackUpdates []models.TrackPoint
}

func (f *fakeEvents) Publish(_ context.Context, event models.WalkEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEvents) PublishTrackUpdate(_ context.Context, point models.TrackPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trackUpdates = append(f.trackUpdates, point)
	return nil
}

func (f *fakeEvents) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.events {
		out = append(out, e.Name)
	}
	return out
}
