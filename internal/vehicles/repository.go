package vehicles

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a vehicle does not exist in the store
var ErrNotFound = errors.New("vehicle not found")

// Repository is an in-memory vehicle store. The demo keeps the whole fleet
// in process memory, so every method works on copies under a lock. Listing
// preserves seed/insertion order.
type Repository struct {
	mu       sync.RWMutex
	vehicles map[uuid.UUID]*Vehicle
	order    []uuid.UUID
}

// NewRepository creates a vehicle repository seeded with the given fleet
func NewRepository(seed []*Vehicle) *Repository {
	r := &Repository{
		vehicles: make(map[uuid.UUID]*Vehicle, len(seed)),
		order:    make([]uuid.UUID, 0, len(seed)),
	}
	for _, v := range seed {
		vc := *v
		r.vehicles[vc.ID] = &vc
		r.order = append(r.order, vc.ID)
	}
	return r
}

// List retrieves all vehicles in insertion order
func (r *Repository) List(ctx context.Context) ([]*Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Vehicle, 0, len(r.order))
	for _, id := range r.order {
		vc := *r.vehicles[id]
		out = append(out, &vc)
	}
	return out, nil
}

// ListByCategory retrieves all vehicles in a category, insertion order
func (r *Repository) ListByCategory(ctx context.Context, category Category) ([]*Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Vehicle, 0)
	for _, id := range r.order {
		if v := r.vehicles[id]; v.Category == category {
			vc := *v
			out = append(out, &vc)
		}
	}
	return out, nil
}

// GetByID retrieves a vehicle by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	vc := *v
	return &vc, nil
}

// Create adds a vehicle to the store
func (r *Repository) Create(ctx context.Context, vehicle *Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	now := time.Now()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	vc := *vehicle
	r.vehicles[vc.ID] = &vc
	r.order = append(r.order, vc.ID)
	return nil
}

// SetAvailability marks a vehicle available or busy
func (r *Repository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	v.Available = available
	v.UpdatedAt = time.Now()
	return nil
}

// UpdatePosition moves a vehicle to a new coordinate
func (r *Repository) UpdatePosition(ctx context.Context, id uuid.UUID, lat, lng float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	v.Latitude = lat
	v.Longitude = lng
	v.UpdatedAt = time.Now()
	return nil
}
