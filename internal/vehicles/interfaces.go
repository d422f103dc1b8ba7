package vehicles

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the vehicle storage operations used by the service layer
type RepositoryInterface interface {
	List(ctx context.Context) ([]*Vehicle, error)
	ListByCategory(ctx context.Context, category Category) ([]*Vehicle, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	Create(ctx context.Context, vehicle *Vehicle) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	UpdatePosition(ctx context.Context, id uuid.UUID, lat, lng float64) error
}
