package buses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gerakita/busadmin/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PageSize matches the dashboard table page length
const PageSize = 20

var ErrBusNotFound = errors.New("bus not found")

var _ busRepo = (*Repo)(nil)

type busRepo interface {
	List(ctx context.Context, filters ListFilters) ([]BusWithRelations, int, error)
	Get(ctx context.Context, id string) (*BusWithRelations, error)
	Add(ctx context.Context, bus *Bus) error
	Update(ctx context.Context, id string, form BusForm) error
	Delete(ctx context.Context, id string) error
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const busSelectColumns = `
	b.id, b.bus_number, b.route_id, b.total_seats, b.available_seats, b.status,
	b.current_latitude, b.current_longitude, b.last_location_update,
	b.created_at, b.updated_at,
	r.id, r.route_number, r.route_name,
	d.id, d.full_name, d.email, d.phone_number`

func (r *Repo) List(ctx context.Context, filters ListFilters) ([]BusWithRelations, int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "busesRepo.List")
	defer span.End()

	where, args := buildListFilters(filters)

	var total int
	countQuery := `SELECT COUNT(*) FROM buses b` + where + `;`
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count buses: %w", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	args = append(args, PageSize, (page-1)*PageSize)

	query := `
		SELECT` + busSelectColumns + `
		FROM buses b
		LEFT JOIN routes r ON r.id = b.route_id
		LEFT JOIN drivers d ON d.bus_id = b.id` +
		where +
		fmt.Sprintf(`
		ORDER BY b.created_at DESC
		LIMIT $%d OFFSET $%d;`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var all []BusWithRelations
	for rows.Next() {
		bus, err := scanBusWithRelations(rows)
		if err != nil {
			return nil, 0, err
		}
		all = append(all, *bus)
	}

	return all, total, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (*BusWithRelations, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT`+busSelectColumns+`
		FROM buses b
		LEFT JOIN routes r ON r.id = b.route_id
		LEFT JOIN drivers d ON d.bus_id = b.id
		WHERE b.id = $1;`,
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
		return nil, ErrBusNotFound
	}

	return scanBusWithRelations(rows)
}

func (r *Repo) Add(ctx context.Context, bus *Bus) error {
	if bus.BusNumber == "" {
		return errors.New("bus number empty")
	}

	err := r.db.QueryRow(
		ctx,
		`INSERT INTO buses (bus_number, route_id, total_seats, available_seats, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at;`,
		bus.BusNumber, bus.RouteID, bus.TotalSeats, bus.AvailableSeats, bus.Status,
	).Scan(&bus.ID, &bus.CreatedAt, &bus.UpdatedAt)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repo) Update(ctx context.Context, id string, form BusForm) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE buses
		SET bus_number = $1, route_id = $2, total_seats = $3, status = $4, updated_at = $5
		WHERE id = $6;`,
		form.BusNumber, form.RouteID, form.TotalSeats, form.Status, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBusNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM buses WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBusNotFound
	}
	return nil
}

func buildListFilters(filters ListFilters) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", len(args)))
	}
	if filters.RouteID != "" {
		args = append(args, filters.RouteID)
		conditions = append(conditions, fmt.Sprintf("b.route_id = $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		conditions = append(conditions, fmt.Sprintf("b.bus_number ILIKE $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "\n\t\tWHERE " + strings.Join(conditions, " AND "), args
}

func scanBusWithRelations(rows pgx.Rows) (*BusWithRelations, error) {
	var bus BusWithRelations
	var routeID, routeNumber, routeName *string
	var driverID, driverName *string
	var driverEmail, driverPhone *string

	if err := rows.Scan(
		&bus.ID, &bus.BusNumber, &bus.RouteID, &bus.TotalSeats, &bus.AvailableSeats, &bus.Status,
		&bus.CurrentLatitude, &bus.CurrentLongitude, &bus.LastLocationUpdate,
		&bus.CreatedAt, &bus.UpdatedAt,
		&routeID, &routeNumber, &routeName,
		&driverID, &driverName, &driverEmail, &driverPhone,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	if routeID != nil {
		bus.Route = &RouteSummary{
			ID:          *routeID,
			RouteNumber: *routeNumber,
			RouteName:   *routeName,
		}
	}
	if driverID != nil {
		bus.Driver = &DriverSummary{
			ID:          *driverID,
			FullName:    *driverName,
			Email:       driverEmail,
			PhoneNumber: driverPhone,
		}
	}

	return &bus, nil
}
