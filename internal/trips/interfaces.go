package trips

import (
	"context"

	"github.com/google/uuid"

	"github.com/luchocam/ridelima/internal/vehicles"
)

// RepositoryInterface defines the trip storage operations used by the service layer
type RepositoryInterface interface {
	Create(ctx context.Context, trip *Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (*Trip, error)
	Patch(ctx context.Context, id uuid.UUID, patch Patch) (*Trip, error)
	ListByRider(ctx context.Context, riderID uuid.UUID) ([]*Trip, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]*Trip, error)
	ListByStatus(ctx context.Context, status Status) ([]*Trip, error)
	List(ctx context.Context) ([]*Trip, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}

// VehicleProvider is the slice of the vehicle service the trip service needs
type VehicleProvider interface {
	GetVehicle(ctx context.Context, id uuid.UUID) (*vehicles.Vehicle, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	ListVehicles(ctx context.Context, category string) ([]*vehicles.Vehicle, error)
}

// Notifier pushes trip lifecycle events to connected clients
type Notifier interface {
	TripUpdated(trip *Trip)
}
