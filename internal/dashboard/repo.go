package dashboard

import (
	"context"
	"time"

	"github.com/gerakita/busadmin/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
)

var _ statsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) TotalUsers(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM users
		WHERE email IS NULL OR email NOT ILIKE '%@gerakita.com';`,
	).Scan(&count)
	return count, err
}

func (r *Repo) ActiveBuses(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM buses WHERE status != 'out_of_service';`,
	).Scan(&count)
	return count, err
}

func (r *Repo) TodayTransactions(ctx context.Context, dayStart time.Time) (int, float64, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dashboardRepo.TodayTransactions")
	defer span.End()

	var count int
	var revenue float64
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE payment_status = 'completed' AND created_at >= $1;`,
		dayStart,
	).Scan(&count, &revenue)
	return count, revenue, err
}

func (r *Repo) TotalWalletBalance(ctx context.Context) (float64, error) {
	var balance float64
	err := r.db.QueryRow(
		ctx,
		`SELECT COALESCE(SUM(balance), 0) FROM wallets;`,
	).Scan(&balance)
	return balance, err
}

func (r *Repo) NewUsersBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM users WHERE created_at >= $1 AND created_at < $2;`,
		from, to,
	).Scan(&count)
	return count, err
}
