package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luchocam/ridelima/internal/trips"
	"github.com/luchocam/ridelima/internal/vehicles"
	"github.com/luchocam/ridelima/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router     *gin.Engine
	tripSvc    *trips.Service
	vehicleSvc *vehicles.Service
	sedan      *vehicles.Vehicle
}

// newFixture builds a router with the admin routes behind a stubbed admin session
func newFixture(t *testing.T, role string) *fixture {
	t.Helper()

	vehicleRepo := vehicles.NewRepository(vehicles.SeedFleet())
	vehicleSvc := vehicles.NewService(vehicleRepo)
	tripSvc := trips.NewService(trips.NewRepository(), vehicleSvc, nil)

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uuid.New().String())
		c.Set(middleware.UserRoleKey, role)
	})
	NewHandler(tripSvc, vehicleSvc).RegisterRoutes(api)

	var sedan *vehicles.Vehicle
	all, err := vehicleSvc.ListVehicles(context.Background(), "sedan")
	require.NoError(t, err)
	require.Len(t, all, 1)
	sedan = all[0]

	return &fixture{router: router, tripSvc: tripSvc, vehicleSvc: vehicleSvc, sedan: sedan}
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) createTrip(t *testing.T) *trips.Trip {
	t.Helper()
	trip, err := f.tripSvc.CreateTrip(context.Background(), uuid.New(), &trips.CreateTripRequest{
		VehicleID:   f.sedan.ID,
		Origin:      "Barranco",
		Destination: "San Borja",
	})
	require.NoError(t, err)
	return trip
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestListVehicles(t *testing.T) {
	f := newFixture(t, "admin")

	w := f.get(t, "/api/v1/admin/vehicles")
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.True(t, env.Success)

	var fleet []vehicles.Vehicle
	require.NoError(t, json.Unmarshal(env.Data, &fleet))
	assert.Len(t, fleet, 4)
}

func TestListTripsWithFilterAndMeta(t *testing.T) {
	f := newFixture(t, "admin")
	f.createTrip(t)
	f.createTrip(t)

	w := f.get(t, "/api/v1/admin/trips?status=pending&limit=1")
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	var list []trips.Trip
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	var meta struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(env.Meta, &meta))
	assert.EqualValues(t, 2, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
}

func TestListTripsUnknownStatus(t *testing.T) {
	f := newFixture(t, "admin")

	w := f.get(t, "/api/v1/admin/trips?status=teleporting")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTrip(t *testing.T) {
	f := newFixture(t, "admin")
	trip := f.createTrip(t)

	w := f.get(t, "/api/v1/admin/trips/"+trip.ID.String())
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	var joined trips.TripWithVehicle
	require.NoError(t, json.Unmarshal(env.Data, &joined))
	assert.Equal(t, trip.ID, joined.Trip.ID)
	assert.Equal(t, "Toyota Corolla", joined.Vehicle.Model)
}

func TestGetTripNotFound(t *testing.T) {
	f := newFixture(t, "admin")

	w := f.get(t, "/api/v1/admin/trips/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStats(t *testing.T) {
	f := newFixture(t, "admin")
	f.createTrip(t)

	w := f.get(t, "/api/v1/admin/stats")
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	var stats trips.StatsResponse
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 1, stats.TotalTrips)
	assert.Equal(t, 4, stats.TotalVehicles)
}

func TestFleetPositions(t *testing.T) {
	f := newFixture(t, "admin")

	w := f.get(t, "/api/v1/admin/fleet/positions")
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	var positions []vehicles.Position
	require.NoError(t, json.Unmarshal(env.Data, &positions))
	assert.Len(t, positions, 4)
}

func TestAdminRoutesRejectOtherRoles(t *testing.T) {
	f := newFixture(t, "rider")

	w := f.get(t, "/api/v1/admin/stats")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
