package trips

import (
	"time"

	"github.com/google/uuid"

	"github.com/luchocam/ridelima/internal/vehicles"
)

// Status is the lifecycle state of a trip
type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// validTransitions maps each status to the statuses it may move to
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether a trip may move from one status to another
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status admits no further transitions
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Coordinate is a map point
type Coordinate struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// Trip represents a ride from request to completion
type Trip struct {
	ID               uuid.UUID   `json:"id"`
	RiderID          uuid.UUID   `json:"rider_id"`
	DriverID         *uuid.UUID  `json:"driver_id,omitempty"`
	VehicleID        uuid.UUID   `json:"vehicle_id"`
	Origin           string      `json:"origin"`
	Destination      string      `json:"destination"`
	OriginCoord      *Coordinate `json:"origin_coord,omitempty"`
	DestinationCoord *Coordinate `json:"destination_coord,omitempty"`
	ScheduledAt      *time.Time  `json:"scheduled_at,omitempty"`
	Status           Status      `json:"status"`
	DistanceKm       float64     `json:"distance_km"`
	DurationMin      int         `json:"duration_min"`
	Price            float64     `json:"price"`
	ConfirmationCode string      `json:"confirmation_code,omitempty"`
	RiderRating      *float64    `json:"rider_rating,omitempty"`
	DriverRating     *float64    `json:"driver_rating,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	CompletedAt      *time.Time  `json:"completed_at,omitempty"`
}

// Patch is a partial update applied to a stored trip. Nil fields are
// left untouched.
type Patch struct {
	Status       *Status
	DriverID     *uuid.UUID
	Price        *float64
	RiderRating  *float64
	DriverRating *float64
	CompletedAt  *time.Time
}

// DriverRequest is a pending trip offered to a driver. The confirmation
// code is withheld; the rider shares it in person at pickup.
type DriverRequest struct {
	ID           uuid.UUID         `json:"id"`
	Origin       string            `json:"origin"`
	Destination  string            `json:"destination"`
	DistanceKm   float64           `json:"distance_km"`
	DurationMin  int               `json:"duration_min"`
	Price        float64           `json:"price"`
	Category     vehicles.Category `json:"category"`
	VehicleModel string            `json:"vehicle_model"`
	CreatedAt    time.Time         `json:"created_at"`
}

// TripWithVehicle joins a trip with the vehicle assigned to it
type TripWithVehicle struct {
	Trip    *Trip             `json:"trip"`
	Vehicle *vehicles.Vehicle `json:"vehicle"`
}

// CreateTripRequest is the payload for requesting a ride
type CreateTripRequest struct {
	VehicleID        uuid.UUID   `json:"vehicle_id" validate:"required"`
	Origin           string      `json:"origin" validate:"required,min=3,max=120"`
	Destination      string      `json:"destination" validate:"required,min=3,max=120"`
	OriginCoord      *Coordinate `json:"origin_coord,omitempty"`
	DestinationCoord *Coordinate `json:"destination_coord,omitempty"`
	ScheduledAt      *time.Time  `json:"scheduled_at,omitempty"`
}

// ValidateCodeRequest is the payload a driver submits at pickup
type ValidateCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,alphanum"`
}

// RateTripRequest is the payload for rating a completed trip
type RateTripRequest struct {
	Rating float64 `json:"rating" validate:"required,gte=1,lte=5"`
}

// StatsResponse summarizes the store for the admin dashboard
type StatsResponse struct {
	TotalTrips       int64                       `json:"total_trips"`
	TripsByStatus    map[Status]int64            `json:"trips_by_status"`
	TripsByCategory  map[vehicles.Category]int64 `json:"trips_by_category"`
	TotalRevenue     float64                     `json:"total_revenue"`
	CancellationRate float64                     `json:"cancellation_rate"`
	AverageRating    float64                     `json:"average_rating"`
	ActiveVehicles   int                         `json:"active_vehicles"`
	TotalVehicles    int                         `json:"total_vehicles"`
}
