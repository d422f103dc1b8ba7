package simulation

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/luchocam/ridelima/internal/vehicles"
	"github.com/luchocam/ridelima/pkg/logger"
	ws "github.com/luchocam/ridelima/pkg/websocket"
)

// maxJitterDegrees bounds each per-tick coordinate nudge to roughly a
// city block
const maxJitterDegrees = 0.0005

// Broadcaster is the slice of the WebSocket hub the simulator needs
type Broadcaster interface {
	SendToRole(role string, msg *ws.Message)
}

// Simulator drifts every vehicle around the map on a fixed interval so the
// fleet looks alive without real GPS feeds
type Simulator struct {
	repo        vehicles.RepositoryInterface
	broadcaster Broadcaster
	interval    time.Duration

	jitterFn func() float64
}

// New creates a simulator. A nil broadcaster disables push updates.
func New(repo vehicles.RepositoryInterface, broadcaster Broadcaster, interval time.Duration) *Simulator {
	return &Simulator{
		repo:        repo,
		broadcaster: broadcaster,
		interval:    interval,
		jitterFn: func() float64 {
			return (rand.Float64() - 0.5) * 2 * maxJitterDegrees
		},
	}
}

// Run moves the fleet on every tick until ctx is cancelled
func (s *Simulator) Run(ctx context.Context) {
	logger.Info("Starting vehicle movement simulation",
		zap.Duration("interval", s.interval),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping vehicle movement simulation")
			return
		case <-ticker.C:
			if err := s.Step(ctx); err != nil {
				logger.Error("Simulation step failed", zap.Error(err))
			}
		}
	}
}

// Step nudges every vehicle once and broadcasts the new fleet positions
func (s *Simulator) Step(ctx context.Context) error {
	fleet, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	positions := make([]map[string]interface{}, 0, len(fleet))
	for _, v := range fleet {
		lat := v.Latitude + s.jitterFn()
		lng := v.Longitude + s.jitterFn()

		if err := s.repo.UpdatePosition(ctx, v.ID, lat, lng); err != nil {
			logger.Warn("Failed to move vehicle",
				zap.String("vehicle_id", v.ID.String()),
				zap.Error(err),
			)
			continue
		}

		positions = append(positions, map[string]interface{}{
			"vehicle_id": v.ID.String(),
			"latitude":   lat,
			"longitude":  lng,
			"available":  v.Available,
		})
	}

	if s.broadcaster != nil {
		s.broadcaster.SendToRole("admin", &ws.Message{
			Type: "fleet_update",
			Data: map[string]interface{}{
				"positions": positions,
			},
		})
	}
	return nil
}
