package ride

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no ride matches the lookup.
var ErrNotFound = errors.New("ride not found")

// Repository persists rides.
type Repository interface {
	Create(ctx context.Context, r Ride) error
	FindByID(ctx context.Context, id string) (Ride, error)
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error
	ListByRider(ctx context.Context, riderID string) ([]Ride, error)
}

// PostgresRepository implements Repository over the rides table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed ride store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new ride.
func (r *PostgresRepository) Create(ctx context.Context, ride Ride) error {
	id, err := uuid.Parse(ride.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO rides
		(id, rider_id, captain_id, pickup, destination, vehicle_type, fare,
		 distance_meters, duration_seconds, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		id, ride.RiderID, ride.CaptainID, ride.Pickup, ride.Destination, ride.VehicleType,
		ride.Fare, ride.DistanceMeters, ride.DurationSeconds, string(ride.Status),
		ride.CreatedAt.UTC(), ride.UpdatedAt.UTC())
	return err
}

// FindByID fetches a ride.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Ride, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return Ride{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, rider_id, captain_id, pickup, destination,
		vehicle_type, fare, distance_meters, duration_seconds, status, created_at, updated_at
		FROM rides WHERE id = $1`, rid)
	return scanRide(row)
}

// UpdateStatus moves a ride to a new lifecycle state.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status Status, at time.Time) error {
	rid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE rides SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), at.UTC(), rid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByRider returns the rider's rides, newest first.
func (r *PostgresRepository) ListByRider(ctx context.Context, riderID string) ([]Ride, error) {
	rows, err := r.db.Query(ctx, `SELECT id, rider_id, captain_id, pickup, destination,
		vehicle_type, fare, distance_meters, duration_seconds, status, created_at, updated_at
		FROM rides WHERE rider_id = $1 ORDER BY created_at DESC`, riderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

func scanRide(row pgx.Row) (Ride, error) {
	var (
		id                   uuid.UUID
		status               string
		createdAt, updatedAt time.Time
		ride                 Ride
	)
	err := row.Scan(&id, &ride.RiderID, &ride.CaptainID, &ride.Pickup, &ride.Destination,
		&ride.VehicleType, &ride.Fare, &ride.DistanceMeters, &ride.DurationSeconds,
		&status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ride{}, ErrNotFound
		}
		return Ride{}, err
	}
	ride.ID = id.String()
	ride.Status = Status(status)
	ride.CreatedAt = createdAt.UTC()
	ride.UpdatedAt = updatedAt.UTC()
	return ride, nil
}

type memoryRepository struct {
	mu    sync.RWMutex
	rides map[string]Ride
}

// NewMemoryRepository builds an in-memory ride store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{rides: make(map[string]Ride)}
}

func (r *memoryRepository) Create(_ context.Context, ride Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rides[ride.ID] = ride
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ride, ok := r.rides[id]
	if !ok {
		return Ride{}, ErrNotFound
	}
	return ride, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id string, status Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ride, ok := r.rides[id]
	if !ok {
		return ErrNotFound
	}
	ride.Status = status
	ride.UpdatedAt = at
	r.rides[id] = ride
	return nil
}

func (r *memoryRepository) ListByRider(_ context.Context, riderID string) ([]Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var rides []Ride
	for _, ride := range r.rides {
		if ride.RiderID == riderID {
			rides = append(rides, ride)
		}
	}
	sort.Slice(rides, func(i, j int) bool { return rides[i].CreatedAt.After(rides[j].CreatedAt) })
	return rides, nil
}
