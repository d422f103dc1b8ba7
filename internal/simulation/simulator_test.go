package simulation

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luchocam/ridelima/internal/vehicles"
	ws "github.com/luchocam/ridelima/pkg/websocket"
)

type recordingBroadcaster struct {
	role     string
	messages []*ws.Message
}

func (r *recordingBroadcaster) SendToRole(role string, msg *ws.Message) {
	r.role = role
	r.messages = append(r.messages, msg)
}

func TestStepMovesEveryVehicle(t *testing.T) {
	repo := vehicles.NewRepository(vehicles.SeedFleet())
	sim := New(repo, nil, time.Second)

	ctx := context.Background()
	before, err := repo.List(ctx)
	require.NoError(t, err)

	require.NoError(t, sim.Step(ctx))

	after, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before))

	byID := make(map[string]*vehicles.Vehicle)
	for _, v := range before {
		byID[v.ID.String()] = v
	}
	for _, v := range after {
		prev := byID[v.ID.String()]
		require.NotNil(t, prev)

		// Each axis drifts by at most the jitter bound
		assert.LessOrEqual(t, math.Abs(v.Latitude-prev.Latitude), maxJitterDegrees)
		assert.LessOrEqual(t, math.Abs(v.Longitude-prev.Longitude), maxJitterDegrees)
	}
}

func TestStepBroadcastsFleetUpdate(t *testing.T) {
	repo := vehicles.NewRepository(vehicles.SeedFleet())
	broadcaster := &recordingBroadcaster{}
	sim := New(repo, broadcaster, time.Second)

	require.NoError(t, sim.Step(context.Background()))

	require.Len(t, broadcaster.messages, 1)
	assert.Equal(t, "admin", broadcaster.role)

	msg := broadcaster.messages[0]
	assert.Equal(t, "fleet_update", msg.Type)

	positions, ok := msg.Data["positions"].([]map[string]interface{})
	require.True(t, ok)
	assert.Len(t, positions, 4)
}

func TestStepWithFixedJitter(t *testing.T) {
	repo := vehicles.NewRepository(vehicles.SeedFleet())
	sim := New(repo, nil, time.Second)
	sim.jitterFn = func() float64 { return 0.0003 }

	ctx := context.Background()
	before, err := repo.List(ctx)
	require.NoError(t, err)

	require.NoError(t, sim.Step(ctx))

	after, err := repo.List(ctx)
	require.NoError(t, err)

	byID := make(map[string]*vehicles.Vehicle)
	for _, v := range before {
		byID[v.ID.String()] = v
	}
	for _, v := range after {
		prev := byID[v.ID.String()]
		assert.InDelta(t, prev.Latitude+0.0003, v.Latitude, 1e-9)
		assert.InDelta(t, prev.Longitude+0.0003, v.Longitude, 1e-9)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	repo := vehicles.NewRepository(vehicles.SeedFleet())
	sim := New(repo, nil, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("simulator did not stop after cancel")
	}
}
