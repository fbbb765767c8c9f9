package drivers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDriverNotFound = errors.New("driver not found")

var _ driverRepo = (*Repo)(nil)

type driverRepo interface {
	All(ctx context.Context, search string) ([]DriverWithBus, error)
	Get(ctx context.Context, id string) (*DriverWithBus, error)
	Update(ctx context.Context, id string, form DriverForm) error
	AssignBus(ctx context.Context, id string, busID *string) error
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const driverSelectColumns = `
	d.id, d.full_name, d.email, d.phone_number, d.profile_image_url, d.bus_id,
	d.created_at, d.updated_at,
	b.id, b.bus_number, b.status`

func (r *Repo) All(ctx context.Context, search string) ([]DriverWithBus, error) {
	query := `
		SELECT` + driverSelectColumns + `
		FROM drivers d
		LEFT JOIN buses b ON b.id = d.bus_id`
	var args []interface{}
	if search != "" {
		query += `
		WHERE d.full_name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += `
		ORDER BY d.full_name;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []DriverWithBus
	for rows.Next() {
		driver, err := scanDriverWithBus(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *driver)
	}

	return all, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (*DriverWithBus, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT`+driverSelectColumns+`
		FROM drivers d
		LEFT JOIN buses b ON b.id = d.bus_id
		WHERE d.id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrDriverNotFound
	}

	return scanDriverWithBus(rows)
}

func (r *Repo) Update(ctx context.Context, id string, form DriverForm) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE drivers
		SET full_name = $1, email = $2, phone_number = $3, bus_id = $4, updated_at = $5
		WHERE id = $6;`,
		form.FullName, form.Email, form.PhoneNumber, form.BusID, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDriverNotFound
	}
	return nil
}

// AssignBus binds or unbinds (nil busID) a driver to a bus
func (r *Repo) AssignBus(ctx context.Context, id string, busID *string) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE drivers SET bus_id = $1, updated_at = $2 WHERE id = $3;`,
		busID, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDriverNotFound
	}
	return nil
}

func scanDriverWithBus(rows pgx.Rows) (*DriverWithBus, error) {
	var driver DriverWithBus
	var busID, busNumber, busStatus *string

	if err := rows.Scan(
		&driver.ID, &driver.FullName, &driver.Email, &driver.PhoneNumber,
		&driver.ProfileImageURL, &driver.BusID,
		&driver.CreatedAt, &driver.UpdatedAt,
		&busID, &busNumber, &busStatus,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	if busID != nil {
		driver.Bus = &BusSummary{
			ID:        *busID,
			BusNumber: *busNumber,
			Status:    *busStatus,
		}
	}

	return &driver, nil
}
