package trips

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a trip does not exist in the store
var ErrNotFound = errors.New("trip not found")

// Repository is an in-memory trip store
type Repository struct {
	mu    sync.RWMutex
	trips map[uuid.UUID]*Trip
}

// NewRepository creates an empty trip repository
func NewRepository() *Repository {
	return &Repository{trips: make(map[uuid.UUID]*Trip)}
}

// Create adds a trip to the store
func (r *Repository) Create(ctx context.Context, trip *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	now := time.Now()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	tc := *trip
	r.trips[tc.ID] = &tc
	return nil
}

// GetByID retrieves a trip by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	tc := *t
	return &tc, nil
}

// Patch applies the non-nil fields of patch to a stored trip and returns
// the updated trip. An empty patch changes nothing, not even UpdatedAt.
func (r *Repository) Patch(ctx context.Context, id uuid.UUID, patch Patch) (*Trip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, ErrNotFound
	}

	changed := false
	if patch.Status != nil {
		t.Status = *patch.Status
		changed = true
	}
	if patch.DriverID != nil {
		t.DriverID = patch.DriverID
		changed = true
	}
	if patch.Price != nil {
		t.Price = *patch.Price
		changed = true
	}
	if patch.RiderRating != nil {
		t.RiderRating = patch.RiderRating
		changed = true
	}
	if patch.DriverRating != nil {
		t.DriverRating = patch.DriverRating
		changed = true
	}
	if patch.CompletedAt != nil {
		t.CompletedAt = patch.CompletedAt
		changed = true
	}
	if changed {
		t.UpdatedAt = time.Now()
	}

	tc := *t
	return &tc, nil
}

// ListByRider retrieves a rider's trips, newest first
func (r *Repository) ListByRider(ctx context.Context, riderID uuid.UUID) ([]*Trip, error) {
	return r.listWhere(func(t *Trip) bool { return t.RiderID == riderID })
}

// ListByDriver retrieves the trips a driver has accepted, newest first
func (r *Repository) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]*Trip, error) {
	return r.listWhere(func(t *Trip) bool { return t.DriverID != nil && *t.DriverID == driverID })
}

// ListByStatus retrieves all trips in a status, newest first
func (r *Repository) ListByStatus(ctx context.Context, status Status) ([]*Trip, error) {
	return r.listWhere(func(t *Trip) bool { return t.Status == status })
}

// List retrieves every trip, newest first
func (r *Repository) List(ctx context.Context) ([]*Trip, error) {
	return r.listWhere(func(t *Trip) bool { return true })
}

// CountByStatus returns the number of trips in each status
func (r *Repository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[Status]int64)
	for _, t := range r.trips {
		counts[t.Status]++
	}
	return counts, nil
}

func (r *Repository) listWhere(keep func(*Trip) bool) ([]*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Trip, 0)
	for _, t := range r.trips {
		if keep(t) {
			tc := *t
			out = append(out, &tc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
