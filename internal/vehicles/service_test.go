package vehicles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luchocam/ridelima/pkg/common"
)

func newTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	repo := NewRepository(SeedFleet())
	return NewService(repo), repo
}

func TestSeedFleet(t *testing.T) {
	fleet := SeedFleet()

	require.Len(t, fleet, 4)

	categories := make(map[Category]bool)
	for _, v := range fleet {
		categories[v.Category] = true
		assert.True(t, v.Available)
		assert.NotEqual(t, uuid.Nil, v.ID)

		// Everything starts around central Lima
		assert.InDelta(t, -12.05, v.Latitude, 0.05)
		assert.InDelta(t, -77.04, v.Longitude, 0.05)
	}
	assert.Len(t, categories, 4, "seed fleet covers every category")
}

func TestListPreservesSeedOrder(t *testing.T) {
	_, repo := newTestService(t)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 4)

	models := []string{all[0].Model, all[1].Model, all[2].Model, all[3].Model}
	assert.Equal(t, []string{"Toyota Corolla", "Honda CR-V", "BMW Serie 3", "Nissan Versa"}, models)
}

func TestListVehicles(t *testing.T) {
	svc, _ := newTestService(t)

	all, err := svc.ListVehicles(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestListVehiclesByCategory(t *testing.T) {
	svc, _ := newTestService(t)

	sedans, err := svc.ListVehicles(context.Background(), "sedan")
	require.NoError(t, err)
	require.Len(t, sedans, 1)
	assert.Equal(t, "Toyota Corolla", sedans[0].Model)
	assert.Equal(t, 2.5, sedans[0].PricePerKm)
}

func TestListVehiclesUnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListVehicles(context.Background(), "helicopter")
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestGetVehicle(t *testing.T) {
	svc, repo := newTestService(t)

	all, err := repo.List(context.Background())
	require.NoError(t, err)

	got, err := svc.GetVehicle(context.Background(), all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, all[0].Model, got.Model)
}

func TestGetVehicleNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetVehicle(context.Background(), uuid.New())
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestSetAvailability(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	id := all[0].ID

	require.NoError(t, svc.SetAvailability(ctx, id, false))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Available)

	require.NoError(t, svc.SetAvailability(ctx, id, true))
	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Available)
}

func TestSetAvailabilityNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.SetAvailability(context.Background(), uuid.New(), false)
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestListAvailableExcludesBusyVehicles(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	sedans, err := repo.ListByCategory(ctx, CategorySedan)
	require.NoError(t, err)
	require.Len(t, sedans, 1)

	require.NoError(t, repo.SetAvailability(ctx, sedans[0].ID, false))

	// The held sedan drops out of the unfiltered listing
	available, err := svc.ListAvailable(ctx, "")
	require.NoError(t, err)
	require.Len(t, available, 3)
	for _, v := range available {
		assert.NotEqual(t, sedans[0].ID, v.ID)
		assert.True(t, v.Available)
	}

	// And out of its own category entirely
	availableSedans, err := svc.ListAvailable(ctx, "sedan")
	require.NoError(t, err)
	assert.Empty(t, availableSedans)
}

func TestListAvailableUnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListAvailable(context.Background(), "helicopter")
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestPositions(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.UpdatePosition(ctx, all[0].ID, -12.1, -77.1))

	positions, err := svc.Positions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 4)

	var moved *Position
	for _, p := range positions {
		if p.VehicleID == all[0].ID {
			moved = p
		}
	}
	require.NotNil(t, moved)
	assert.Equal(t, -12.1, moved.Latitude)
	assert.Equal(t, -77.1, moved.Longitude)
}

func TestRepositoryReturnsCopies(t *testing.T) {
	_, repo := newTestService(t)
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)

	// Mutating a returned vehicle must not touch the store
	all[0].Available = false

	fresh, err := repo.GetByID(ctx, all[0].ID)
	require.NoError(t, err)
	assert.True(t, fresh.Available)
}
