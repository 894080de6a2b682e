package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository over the riders and captains tables.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed principal store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func tableFor(role Role) string {
	if role == RoleCaptain {
		return "captains"
	}
	return "riders"
}

// Create inserts a new principal. Unique violations on email or phone map to
// ErrExists so callers see the same conflict regardless of which writer lost
// the race.
func (r *PostgresRepository) Create(ctx context.Context, p Principal) error {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return err
	}

	if p.Role == RoleCaptain {
		v := p.Vehicle
		if v == nil {
			v = &Vehicle{}
		}
		_, err = r.db.Exec(ctx, `INSERT INTO captains
			(id, first_name, last_name, email, country_code, phone, gender, password_hash,
			 is_verified, is_kyc_done, avatar_url, vehicle_type, vehicle_color, vehicle_plate,
			 vehicle_capacity, active, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
			id, p.FirstName, p.LastName, p.Email, p.CountryCode, p.Phone, p.Gender,
			p.PasswordHash, p.IsVerified, p.IsKycDone, p.AvatarURL,
			v.Type, v.Color, v.Plate, v.Capacity, p.Active, p.CreatedAt.UTC())
	} else {
		_, err = r.db.Exec(ctx, `INSERT INTO riders
			(id, first_name, last_name, email, country_code, phone, gender, password_hash,
			 is_verified, is_kyc_done, avatar_url, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			id, p.FirstName, p.LastName, p.Email, p.CountryCode, p.Phone, p.Gender,
			p.PasswordHash, p.IsVerified, p.IsKycDone, p.AvatarURL, p.CreatedAt.UTC())
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrExists
	}
	return err
}

// FindByID fetches a principal by id from the store named by role.
func (r *PostgresRepository) FindByID(ctx context.Context, role Role, id string) (Principal, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return Principal{}, ErrNotFound
	}
	return r.findOne(ctx, role, "id = $1", pid)
}

// FindByEmail fetches a principal by email from the store named by role.
func (r *PostgresRepository) FindByEmail(ctx context.Context, role Role, email string) (Principal, error) {
	return r.findOne(ctx, role, "email = $1", email)
}

// FindByPhone fetches a principal by phone number from the store named by role.
func (r *PostgresRepository) FindByPhone(ctx context.Context, role Role, phone string) (Principal, error) {
	return r.findOne(ctx, role, "phone = $1", phone)
}

func (r *PostgresRepository) findOne(ctx context.Context, role Role, where string, arg any) (Principal, error) {
	if role == RoleCaptain {
		row := r.db.QueryRow(ctx, `SELECT id, first_name, last_name, email, country_code,
			phone, gender, password_hash, is_verified, is_kyc_done, avatar_url,
			vehicle_type, vehicle_color, vehicle_plate, vehicle_capacity, active, created_at
			FROM captains WHERE `+where, arg)
		return scanCaptain(row)
	}
	row := r.db.QueryRow(ctx, `SELECT id, first_name, last_name, email, country_code,
		phone, gender, password_hash, is_verified, is_kyc_done, avatar_url, created_at
		FROM riders WHERE `+where, arg)
	return scanRider(row)
}

// UpdateAvatar stores the principal's avatar reference.
func (r *PostgresRepository) UpdateAvatar(ctx context.Context, role Role, id, url string) error {
	return r.updateOne(ctx, role, id, "avatar_url", url)
}

// SetVerified flips the principal's verification flag.
func (r *PostgresRepository) SetVerified(ctx context.Context, role Role, id string, verified bool) error {
	return r.updateOne(ctx, role, id, "is_verified", verified)
}

func (r *PostgresRepository) updateOne(ctx context.Context, role Role, id, column string, value any) error {
	pid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE `+tableFor(role)+` SET `+column+` = $1 WHERE id = $2`, value, pid)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FirstActiveCaptain returns any captain currently marked active. Ride
// dispatch beyond this single lookup is out of scope.
func (r *PostgresRepository) FirstActiveCaptain(ctx context.Context) (Principal, error) {
	row := r.db.QueryRow(ctx, `SELECT id, first_name, last_name, email, country_code,
		phone, gender, password_hash, is_verified, is_kyc_done, avatar_url,
		vehicle_type, vehicle_color, vehicle_plate, vehicle_capacity, active, created_at
		FROM captains WHERE active ORDER BY created_at LIMIT 1`)
	return scanCaptain(row)
}

func scanRider(row pgx.Row) (Principal, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		p         Principal
	)
	err := row.Scan(&id, &p.FirstName, &p.LastName, &p.Email, &p.CountryCode, &p.Phone,
		&p.Gender, &p.PasswordHash, &p.IsVerified, &p.IsKycDone, &p.AvatarURL, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Principal{}, ErrNotFound
		}
		return Principal{}, err
	}
	p.ID = id.String()
	p.Role = RoleRider
	p.CreatedAt = createdAt.UTC()
	return p, nil
}

func scanCaptain(row pgx.Row) (Principal, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		v         Vehicle
		p         Principal
	)
	err := row.Scan(&id, &p.FirstName, &p.LastName, &p.Email, &p.CountryCode, &p.Phone,
		&p.Gender, &p.PasswordHash, &p.IsVerified, &p.IsKycDone, &p.AvatarURL,
		&v.Type, &v.Color, &v.Plate, &v.Capacity, &p.Active, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Principal{}, ErrNotFound
		}
		return Principal{}, err
	}
	p.ID = id.String()
	p.Role = RoleCaptain
	p.Vehicle = &v
	p.CreatedAt = createdAt.UTC()
	return p, nil
}
