package trips

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luchocam/ridelima/internal/vehicles"
	"github.com/luchocam/ridelima/pkg/common"
	"github.com/luchocam/ridelima/pkg/logger"
	"github.com/luchocam/ridelima/pkg/pagination"
	"github.com/luchocam/ridelima/pkg/validation"
)

const (
	minTripDistanceKm = 5.0
	maxTripDistanceKm = 20.0

	// Estimated minutes per kilometer in Lima traffic
	minutesPerKm = 3

	confirmationCodeLength  = 6
	confirmationCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Service implements the trip lifecycle on top of the store
type Service struct {
	repo       RepositoryInterface
	vehicleSvc VehicleProvider
	notifier   Notifier

	// distanceFn estimates the route length; swapped out in tests
	distanceFn func() float64
}

type noopNotifier struct{}

func (noopNotifier) TripUpdated(*Trip) {}

// NewService creates a new trip service. A nil notifier disables push updates.
func NewService(repo RepositoryInterface, vehicleSvc VehicleProvider, notifier Notifier) *Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Service{
		repo:       repo,
		vehicleSvc: vehicleSvc,
		notifier:   notifier,
		distanceFn: randomDistance,
	}
}

// randomDistance estimates a route length for the demo, in tenths of a km
func randomDistance() float64 {
	return math.Round((minTripDistanceKm+rand.Float64()*(maxTripDistanceKm-minTripDistanceKm))*10) / 10
}

// generateConfirmationCode builds the 6-character code the rider shares
// with the driver at pickup
func generateConfirmationCode() string {
	var b strings.Builder
	b.Grow(confirmationCodeLength)
	for i := 0; i < confirmationCodeLength; i++ {
		b.WriteByte(confirmationCodeCharset[rand.Intn(len(confirmationCodeCharset))])
	}
	return b.String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateTrip requests a ride with the chosen vehicle. The price is derived
// from the estimated distance and the vehicle's per-km rate.
func (s *Service) CreateTrip(ctx context.Context, riderID uuid.UUID, req *CreateTripRequest) (*Trip, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, common.NewBadRequestError(err.Error(), err)
	}

	vehicle, err := s.vehicleSvc.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.Available {
		return nil, common.NewConflictError("vehicle is not available")
	}

	distance := s.distanceFn()
	trip := &Trip{
		ID:               uuid.New(),
		RiderID:          riderID,
		VehicleID:        vehicle.ID,
		Origin:           req.Origin,
		Destination:      req.Destination,
		OriginCoord:      req.OriginCoord,
		DestinationCoord: req.DestinationCoord,
		ScheduledAt:      req.ScheduledAt,
		Status:           StatusPending,
		DistanceKm:       distance,
		DurationMin:      int(distance * minutesPerKm),
		Price:            round2(distance * vehicle.PricePerKm),
		ConfirmationCode: generateConfirmationCode(),
	}

	if err := s.repo.Create(ctx, trip); err != nil {
		return nil, common.NewInternalServerError("failed to create trip")
	}

	logger.WithContext(ctx).Info("Trip requested",
		zap.String("trip_id", trip.ID.String()),
		zap.String("rider_id", riderID.String()),
		zap.String("category", string(vehicle.Category)),
		zap.Float64("price", trip.Price),
	)

	s.notifier.TripUpdated(trip)
	return trip, nil
}

// ListRiderTrips returns a rider's trips, newest first, each joined with
// its vehicle
func (s *Service) ListRiderTrips(ctx context.Context, riderID uuid.UUID) ([]*TripWithVehicle, error) {
	list, err := s.repo.ListByRider(ctx, riderID)
	if err != nil {
		return nil, err
	}
	return s.joinVehicles(ctx, list), nil
}

// GetRiderTrip returns one of the rider's trips with its vehicle
func (s *Service) GetRiderTrip(ctx context.Context, riderID, tripID uuid.UUID) (*TripWithVehicle, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.RiderID != riderID {
		return nil, common.NewForbiddenError("trip belongs to another rider")
	}

	joined := s.joinVehicles(ctx, []*Trip{trip})
	return joined[0], nil
}

// CancelTrip cancels one of the rider's trips. A vehicle already holding
// the trip is released.
func (s *Service) CancelTrip(ctx context.Context, riderID, tripID uuid.UUID) (*Trip, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.RiderID != riderID {
		return nil, common.NewForbiddenError("trip belongs to another rider")
	}
	return s.transition(ctx, trip, StatusCancelled, Patch{})
}

// DriverRequests returns the pending trips whose vehicle matches the
// driver's category
func (s *Service) DriverRequests(ctx context.Context, category vehicles.Category) ([]*DriverRequest, error) {
	pending, err := s.repo.ListByStatus(ctx, StatusPending)
	if err != nil {
		return nil, err
	}

	out := make([]*DriverRequest, 0)
	for _, t := range pending {
		vehicle, err := s.vehicleSvc.GetVehicle(ctx, t.VehicleID)
		if err != nil {
			logger.WithContext(ctx).Warn("Skipping trip with missing vehicle",
				zap.String("trip_id", t.ID.String()),
			)
			continue
		}
		if vehicle.Category != category {
			continue
		}
		out = append(out, &DriverRequest{
			ID:           t.ID,
			Origin:       t.Origin,
			Destination:  t.Destination,
			DistanceKm:   t.DistanceKm,
			DurationMin:  t.DurationMin,
			Price:        t.Price,
			Category:     vehicle.Category,
			VehicleModel: vehicle.Model,
			CreatedAt:    t.CreatedAt,
		})
	}
	return out, nil
}

// AcceptTrip moves a pending trip to accepted, attaches the accepting
// driver and holds the vehicle
func (s *Service) AcceptTrip(ctx context.Context, driverID uuid.UUID, category vehicles.Category, tripID uuid.UUID) (*Trip, error) {
	trip, err := s.requireCategory(ctx, category, tripID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, trip, StatusAccepted, Patch{DriverID: &driverID})
}

// RejectTrip declines a pending trip, cancelling it
func (s *Service) RejectTrip(ctx context.Context, category vehicles.Category, tripID uuid.UUID) (*Trip, error) {
	trip, err := s.requireCategory(ctx, category, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != StatusPending {
		return nil, common.NewConflictError(fmt.Sprintf("cannot reject a %s trip", trip.Status))
	}
	return s.transition(ctx, trip, StatusCancelled, Patch{})
}

// ValidateCode checks the confirmation code the rider shared at pickup.
// Only an exact match confirms the trip; a wrong code changes nothing.
func (s *Service) ValidateCode(ctx context.Context, category vehicles.Category, tripID uuid.UUID, code string) (*Trip, error) {
	trip, err := s.requireCategory(ctx, category, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != StatusAccepted {
		return nil, common.NewConflictError(fmt.Sprintf("cannot validate code for a %s trip", trip.Status))
	}
	if code != trip.ConfirmationCode {
		return nil, common.NewBadRequestError("invalid confirmation code", nil)
	}
	return s.transition(ctx, trip, StatusConfirmed, Patch{})
}

// StartTrip moves a confirmed trip to in_progress
func (s *Service) StartTrip(ctx context.Context, category vehicles.Category, tripID uuid.UUID) (*Trip, error) {
	trip, err := s.requireCategory(ctx, category, tripID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, trip, StatusInProgress, Patch{})
}

// CompleteTrip finishes an in-progress trip and releases its vehicle
func (s *Service) CompleteTrip(ctx context.Context, category vehicles.Category, tripID uuid.UUID) (*Trip, error) {
	trip, err := s.requireCategory(ctx, category, tripID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, trip, StatusCompleted, Patch{})
}

// DriverTrips returns the trips the driver has accepted, newest first
func (s *Service) DriverTrips(ctx context.Context, driverID uuid.UUID) ([]*TripWithVehicle, error) {
	list, err := s.repo.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	return s.joinVehicles(ctx, list), nil
}

// RateTrip records the rider's rating for a completed trip
func (s *Service) RateTrip(ctx context.Context, riderID, tripID uuid.UUID, rating float64) (*Trip, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.RiderID != riderID {
		return nil, common.NewForbiddenError("trip belongs to another rider")
	}
	return s.rate(ctx, trip, rating, func(p *Patch, r *float64) { p.RiderRating = r })
}

// RateRider records the driver's rating of the rider for a completed trip
func (s *Service) RateRider(ctx context.Context, category vehicles.Category, tripID uuid.UUID, rating float64) (*Trip, error) {
	trip, err := s.requireCategory(ctx, category, tripID)
	if err != nil {
		return nil, err
	}
	return s.rate(ctx, trip, rating, func(p *Patch, r *float64) { p.DriverRating = r })
}

// ListTrips returns all trips for the admin view, optionally filtered by
// status, with the total count before windowing
func (s *Service) ListTrips(ctx context.Context, status string, limit, offset int) ([]*Trip, int64, error) {
	var (
		list []*Trip
		err  error
	)
	if status == "" {
		list, err = s.repo.List(ctx)
	} else {
		if !validStatus(status) {
			return nil, 0, common.NewBadRequestError(fmt.Sprintf("unknown trip status: %s", status), nil)
		}
		list, err = s.repo.ListByStatus(ctx, Status(status))
	}
	if err != nil {
		return nil, 0, err
	}

	total := int64(len(list))
	start, end := pagination.Slice(len(list), limit, offset)
	return list[start:end], total, nil
}

// Stats summarizes the store for the admin dashboard
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}

	fleet, err := s.vehicleSvc.ListVehicles(ctx, "")
	if err != nil {
		return nil, err
	}
	active := 0
	categoryOf := make(map[uuid.UUID]vehicles.Category, len(fleet))
	for _, v := range fleet {
		if v.Available {
			active++
		}
		categoryOf[v.ID] = v.Category
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var (
		revenue     float64
		ratingSum   float64
		ratingCount int
	)
	byCategory := make(map[vehicles.Category]int64)
	for _, t := range all {
		if category, ok := categoryOf[t.VehicleID]; ok {
			byCategory[category]++
		}
		if t.Status == StatusCompleted {
			revenue += t.Price
		}
		if t.RiderRating != nil {
			ratingSum += *t.RiderRating
			ratingCount++
		}
	}

	stats := &StatsResponse{
		TotalTrips:      total,
		TripsByStatus:   counts,
		TripsByCategory: byCategory,
		TotalRevenue:    round2(revenue),
		ActiveVehicles:  active,
		TotalVehicles:   len(fleet),
	}
	if total > 0 {
		stats.CancellationRate = round2(float64(counts[StatusCancelled]) / float64(total))
	}
	if ratingCount > 0 {
		stats.AverageRating = round2(ratingSum / float64(ratingCount))
	}
	return stats, nil
}

// GetTrip returns any trip by ID, for the admin view
func (s *Service) GetTrip(ctx context.Context, tripID uuid.UUID) (*TripWithVehicle, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	joined := s.joinVehicles(ctx, []*Trip{trip})
	return joined[0], nil
}

func (s *Service) getTrip(ctx context.Context, tripID uuid.UUID) (*Trip, error) {
	trip, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, common.NewNotFoundError("trip not found", err)
		}
		return nil, err
	}
	return trip, nil
}

// requireCategory loads a trip and checks that its vehicle belongs to the
// driver's category
func (s *Service) requireCategory(ctx context.Context, category vehicles.Category, tripID uuid.UUID) (*Trip, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.vehicleSvc.GetVehicle(ctx, trip.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.Category != category {
		return nil, common.NewForbiddenError("trip belongs to another vehicle category")
	}
	return trip, nil
}

// transition moves a trip to the target status, applying any extra patch
// fields and adjusting vehicle availability where the lifecycle requires it
func (s *Service) transition(ctx context.Context, trip *Trip, to Status, patch Patch) (*Trip, error) {
	if !CanTransition(trip.Status, to) {
		return nil, common.NewConflictError(fmt.Sprintf("cannot move trip from %s to %s", trip.Status, to))
	}

	patch.Status = &to
	if to == StatusCompleted {
		now := time.Now()
		patch.CompletedAt = &now
	}

	updated, err := s.repo.Patch(ctx, trip.ID, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, common.NewNotFoundError("trip not found", err)
		}
		return nil, err
	}

	switch {
	case to == StatusAccepted:
		err = s.vehicleSvc.SetAvailability(ctx, trip.VehicleID, false)
	case to == StatusCompleted,
		to == StatusCancelled && trip.Status != StatusPending:
		err = s.vehicleSvc.SetAvailability(ctx, trip.VehicleID, true)
	}
	if err != nil {
		logger.WithContext(ctx).Error("Failed to update vehicle availability",
			zap.String("trip_id", trip.ID.String()),
			zap.String("vehicle_id", trip.VehicleID.String()),
			zap.Error(err),
		)
	}

	logger.WithContext(ctx).Info("Trip status changed",
		zap.String("trip_id", trip.ID.String()),
		zap.String("from", string(trip.Status)),
		zap.String("to", string(to)),
	)

	s.notifier.TripUpdated(updated)
	return updated, nil
}

func (s *Service) rate(ctx context.Context, trip *Trip, rating float64, set func(*Patch, *float64)) (*Trip, error) {
	if rating < 1 || rating > 5 {
		return nil, common.NewBadRequestError("rating must be between 1 and 5", nil)
	}
	if trip.Status != StatusCompleted {
		return nil, common.NewConflictError("only completed trips can be rated")
	}

	var patch Patch
	set(&patch, &rating)
	updated, err := s.repo.Patch(ctx, trip.ID, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, common.NewNotFoundError("trip not found", err)
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) joinVehicles(ctx context.Context, list []*Trip) []*TripWithVehicle {
	out := make([]*TripWithVehicle, len(list))
	for i, t := range list {
		joined := &TripWithVehicle{Trip: t}
		if vehicle, err := s.vehicleSvc.GetVehicle(ctx, t.VehicleID); err == nil {
			joined.Vehicle = vehicle
		}
		out[i] = joined
	}
	return out
}

func validStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusAccepted, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
