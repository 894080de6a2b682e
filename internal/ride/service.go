// Package ride implements the thin ride lifecycle: booking with a fare
// estimate and status updates. Matching beyond a single available-captain
// lookup is out of scope.
package ride

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gocab/gocab/internal/fare"
	"github.com/gocab/gocab/internal/identity"
	"github.com/gocab/gocab/internal/maps"
)

var (
	// ErrNoCaptains is returned when no captain is available for a booking.
	ErrNoCaptains = errors.New("no available captains")
	// ErrBadTransition is returned for a lifecycle move the state machine
	// does not allow.
	ErrBadTransition = errors.New("invalid status transition")
	// ErrMissingFields is returned when a booking request is incomplete.
	ErrMissingFields = errors.New("pickup, destination and vehicle type are required")
)

// Service books rides and advances their lifecycle.
type Service struct {
	rides      Repository
	principals identity.Repository
	geo        maps.Geocoder
	fares      *fare.Service
	logger     *slog.Logger
}

// NewService wires the ride service.
func NewService(rides Repository, principals identity.Repository, geo maps.Geocoder, fares *fare.Service, logger *slog.Logger) *Service {
	return &Service{rides: rides, principals: principals, geo: geo, fares: fares, logger: logger}
}

// Book estimates the route and fare, picks an available captain, and creates
// the ride in the ongoing state.
func (s *Service) Book(ctx context.Context, riderID, pickup, destination, vehicleType string) (Ride, error) {
	if strings.TrimSpace(pickup) == "" || strings.TrimSpace(destination) == "" || strings.TrimSpace(vehicleType) == "" {
		return Ride{}, ErrMissingFields
	}

	route, err := s.geo.Distance(ctx, pickup, destination)
	if err != nil {
		return Ride{}, fmt.Errorf("estimate route: %w", err)
	}

	amount, err := s.fares.Estimate(ctx, vehicleType, float64(route.DistanceMeters)/1000, float64(route.DurationSeconds)/60)
	if err != nil {
		return Ride{}, fmt.Errorf("estimate fare: %w", err)
	}

	captain, err := s.principals.FirstActiveCaptain(ctx)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return Ride{}, ErrNoCaptains
		}
		return Ride{}, fmt.Errorf("find captain: %w", err)
	}

	now := time.Now().UTC()
	ride := Ride{
		ID:              uuid.New().String(),
		RiderID:         riderID,
		CaptainID:       captain.ID,
		Pickup:          pickup,
		Destination:     destination,
		VehicleType:     vehicleType,
		Fare:            amount,
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
		Status:          StatusOngoing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.rides.Create(ctx, ride); err != nil {
		return Ride{}, fmt.Errorf("persist ride: %w", err)
	}

	s.logger.Info("ride booked",
		slog.String("ride_id", ride.ID),
		slog.String("captain_id", captain.ID),
		slog.Float64("fare", amount),
	)
	return ride, nil
}

// UpdateStatus moves a ride to a new state. Only ongoing rides may move, and
// only to completed or cancelled.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Ride, error) {
	if !status.Valid() {
		return Ride{}, ErrBadTransition
	}

	current, err := s.rides.FindByID(ctx, id)
	if err != nil {
		return Ride{}, err
	}
	if current.Status.Terminal() || status == StatusOngoing {
		return Ride{}, ErrBadTransition
	}

	now := time.Now().UTC()
	if err := s.rides.UpdateStatus(ctx, id, status, now); err != nil {
		return Ride{}, err
	}
	current.Status = status
	current.UpdatedAt = now
	return current, nil
}

// Get fetches one ride.
func (s *Service) Get(ctx context.Context, id string) (Ride, error) {
	return s.rides.FindByID(ctx, id)
}

// History lists the rider's rides, newest first.
func (s *Service) History(ctx context.Context, riderID string) ([]Ride, error) {
	return s.rides.ListByRider(ctx, riderID)
}
