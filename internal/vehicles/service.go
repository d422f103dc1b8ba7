package vehicles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/luchocam/ridelima/pkg/common"
)

// Service implements vehicle business logic on top of the store
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new vehicle service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// ListVehicles returns the fleet, optionally filtered by category
func (s *Service) ListVehicles(ctx context.Context, category string) ([]*Vehicle, error) {
	if category == "" {
		return s.repo.List(ctx)
	}
	if !ValidCategory(category) {
		return nil, common.NewBadRequestError(fmt.Sprintf("unknown vehicle category: %s", category), nil)
	}
	return s.repo.ListByCategory(ctx, Category(category))
}

// ListAvailable returns the bookable vehicles, optionally filtered by category
func (s *Service) ListAvailable(ctx context.Context, category string) ([]*Vehicle, error) {
	all, err := s.ListVehicles(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]*Vehicle, 0, len(all))
	for _, v := range all {
		if v.Available {
			out = append(out, v)
		}
	}
	return out, nil
}

// GetVehicle returns a vehicle by ID
func (s *Service) GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, common.NewNotFoundError("vehicle not found", err)
		}
		return nil, err
	}
	return v, nil
}

// SetAvailability marks a vehicle available or busy
func (s *Service) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NewNotFoundError("vehicle not found", err)
		}
		return err
	}
	return nil
}

// Positions returns the live coordinate of every vehicle for the fleet map
func (s *Service) Positions(ctx context.Context) ([]*Position, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	positions := make([]*Position, len(all))
	for i, v := range all {
		positions[i] = &Position{
			VehicleID: v.ID,
			Latitude:  v.Latitude,
			Longitude: v.Longitude,
			Available: v.Available,
			UpdatedAt: v.UpdatedAt,
		}
	}
	return positions, nil
}
