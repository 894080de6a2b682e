package fare

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRateRepository loads rate tables from the fare_rates table.
type PostgresRateRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRateRepository builds a Postgres-backed rate store.
func NewPostgresRateRepository(db *pgxpool.Pool) *PostgresRateRepository {
	return &PostgresRateRepository{db: db}
}

// FindByVehicleType fetches the rate table for one vehicle type.
func (r *PostgresRateRepository) FindByVehicleType(ctx context.Context, vehicleType string) (Rate, error) {
	row := r.db.QueryRow(ctx, `SELECT vehicle_type, base_fare, per_km, per_min, surge_multiplier, min_fare
		FROM fare_rates WHERE vehicle_type = $1`, vehicleType)
	var rate Rate
	err := row.Scan(&rate.VehicleType, &rate.BaseFare, &rate.PerKm, &rate.PerMin, &rate.SurgeMultiplier, &rate.MinFare)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rate{}, ErrRateNotFound
		}
		return Rate{}, err
	}
	return rate, nil
}

type memoryRateRepository struct {
	mu    sync.RWMutex
	rates map[string]Rate
}

// NewMemoryRateRepository builds an in-memory rate store seeded with the
// given rates. Used in development mode and tests.
func NewMemoryRateRepository(rates ...Rate) RateRepository {
	m := &memoryRateRepository{rates: make(map[string]Rate, len(rates))}
	for _, r := range rates {
		m.rates[r.VehicleType] = r
	}
	return m
}

func (m *memoryRateRepository) FindByVehicleType(_ context.Context, vehicleType string) (Rate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rate, ok := m.rates[vehicleType]
	if !ok {
		return Rate{}, ErrRateNotFound
	}
	return rate, nil
}

// DefaultRates seeds the development rate store with sane city pricing.
func DefaultRates() []Rate {
	return []Rate{
		{VehicleType: "car", BaseFare: 50, PerKm: 12, PerMin: 1.5, SurgeMultiplier: 1, MinFare: 60},
		{VehicleType: "auto", BaseFare: 30, PerKm: 9, PerMin: 1, SurgeMultiplier: 1, MinFare: 35},
		{VehicleType: "bike", BaseFare: 20, PerKm: 6, PerMin: 0.75, SurgeMultiplier: 1, MinFare: 25},
	}
}
