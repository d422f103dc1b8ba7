package trips

import (
	ws "github.com/luchocam/ridelima/pkg/websocket"
)

// HubNotifier pushes trip lifecycle events to WebSocket clients
type HubNotifier struct {
	hub *ws.Hub
}

// NewHubNotifier creates a notifier backed by the WebSocket hub
func NewHubNotifier(hub *ws.Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// TripUpdated sends the trip's new state to the rider, to everyone watching
// the trip, and to admin clients
func (n *HubNotifier) TripUpdated(trip *Trip) {
	msg := &ws.Message{
		Type:   "trip_update",
		TripID: trip.ID.String(),
		Data: map[string]interface{}{
			"status":       string(trip.Status),
			"origin":       trip.Origin,
			"destination":  trip.Destination,
			"price":        trip.Price,
			"distance_km":  trip.DistanceKm,
			"duration_min": trip.DurationMin,
			"updated_at":   trip.UpdatedAt,
		},
	}

	n.hub.SendToUser(trip.RiderID.String(), msg)
	n.hub.SendToTrip(trip.ID.String(), msg)
	n.hub.SendToRole("admin", msg)
}
