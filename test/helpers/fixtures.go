package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/luchocam/ridelima/internal/trips"
	"github.com/luchocam/ridelima/internal/vehicles"
	"github.com/luchocam/ridelima/pkg/middleware"
)

// Session is a stubbed identity injected into test routers in place of
// the JWT middleware
type Session struct {
	UserID          uuid.UUID
	Role            string
	VehicleCategory string
}

// RiderSession creates a rider identity
func RiderSession() Session {
	return Session{UserID: uuid.New(), Role: "rider"}
}

// DriverSession creates a driver identity for a vehicle category
func DriverSession(category vehicles.Category) Session {
	return Session{UserID: uuid.New(), Role: "driver", VehicleCategory: string(category)}
}

// AdminSession creates an admin identity
func AdminSession() Session {
	return Session{UserID: uuid.New(), Role: "admin"}
}

// Middleware returns a gin middleware that installs the session into the
// request context the way the auth middleware would
func (s Session) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, s.UserID.String())
		c.Set(middleware.UserRoleKey, s.Role)
		if s.VehicleCategory != "" {
			c.Set(middleware.VehicleCategoryKey, s.VehicleCategory)
		}
		c.Next()
	}
}

// NewStore builds a seeded vehicle service and an empty trip service
// wired together
func NewStore(t *testing.T) (*trips.Service, *vehicles.Service) {
	t.Helper()
	vehicleSvc := vehicles.NewService(vehicles.NewRepository(vehicles.SeedFleet()))
	tripSvc := trips.NewService(trips.NewRepository(), vehicleSvc, nil)
	return tripSvc, vehicleSvc
}

func testContext() context.Context {
	return context.Background()
}

// VehicleByCategory finds the seeded vehicle for a category
func VehicleByCategory(t *testing.T, svc *vehicles.Service, category vehicles.Category) *vehicles.Vehicle {
	t.Helper()
	list, err := svc.ListVehicles(testContext(), string(category))
	require.NoError(t, err)
	require.Len(t, list, 1)
	return list[0]
}

// DoJSON performs a JSON request against the router and returns the recorder
func DoJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// DecodeData unmarshals the data field of the response envelope into out
func DecodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Success, "expected success envelope, got: %s", w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}
