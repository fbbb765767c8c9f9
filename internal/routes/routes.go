package routes

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRouteNotFound = errors.New("route not found")

type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusMaintenance Status = "maintenance"
)

type Route struct {
	ID                string    `json:"id"`
	RouteNumber       string    `json:"route_number"`
	RouteName         string    `json:"route_name"`
	Description       *string   `json:"description,omitempty"`
	EstimatedDuration *string   `json:"estimated_duration,omitempty"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

var _ routesRepo = (*Repo)(nil)

type routesRepo interface {
	All(ctx context.Context) ([]Route, error)
	Get(ctx context.Context, id string) (*Route, error)
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) All(ctx context.Context) ([]Route, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT
			id, route_number, route_name, description,
			estimated_duration, status, created_at, updated_at
		FROM routes
		ORDER BY route_number;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []Route
	for rows.Next() {
		var route Route
		if err := rows.Scan(
			&route.ID, &route.RouteNumber, &route.RouteName, &route.Description,
			&route.EstimatedDuration, &route.Status, &route.CreatedAt, &route.UpdatedAt,
		); err != nil {
			return nil, err
		}
		all = append(all, route)
	}

	return all, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (*Route, error) {
	var route Route
	err := r.db.QueryRow(
		ctx,
		`SELECT
			id, route_number, route_name, description,
			estimated_duration, status, created_at, updated_at
		FROM routes
		WHERE id = $1;`,
		id,
	).Scan(
		&route.ID, &route.RouteNumber, &route.RouteName, &route.Description,
		&route.EstimatedDuration, &route.Status, &route.CreatedAt, &route.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRouteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &route, nil
}
