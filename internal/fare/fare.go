// Package fare computes ride fares from persisted per-vehicle rate tables.
// Rate management is out of scope; rates are read-only here.
package fare

import (
	"context"
	"errors"
	"math"
)

// ErrRateNotFound is returned when no rate table exists for a vehicle type.
var ErrRateNotFound = errors.New("fare rate not found")

// Rate holds the pricing parameters for one vehicle type.
type Rate struct {
	VehicleType     string  `json:"vehicleType"`
	BaseFare        float64 `json:"baseFare"`
	PerKm           float64 `json:"perKmRate"`
	PerMin          float64 `json:"perMinRate"`
	SurgeMultiplier float64 `json:"surgeMultiplier"`
	MinFare         float64 `json:"minFare"`
}

// RateRepository loads rate tables.
type RateRepository interface {
	FindByVehicleType(ctx context.Context, vehicleType string) (Rate, error)
}

// Service estimates fares.
type Service struct {
	rates RateRepository
}

// NewService builds a fare service over the given rate store.
func NewService(rates RateRepository) *Service {
	return &Service{rates: rates}
}

// Estimate computes the fare for a trip of the given distance and duration:
// (base + km*perKm + min*perMin) * surge, rounded to two decimals and floored
// at the rate's minimum fare.
func (s *Service) Estimate(ctx context.Context, vehicleType string, distanceKm, durationMin float64) (float64, error) {
	rate, err := s.rates.FindByVehicleType(ctx, vehicleType)
	if err != nil {
		return 0, err
	}

	surge := rate.SurgeMultiplier
	if surge <= 0 {
		surge = 1
	}
	raw := (rate.BaseFare + distanceKm*rate.PerKm + durationMin*rate.PerMin) * surge
	rounded := math.Round(raw*100) / 100
	return math.Max(rate.MinFare, rounded), nil
}
