package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gerakita/busadmin/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const PageSize = 20

var ErrTransactionNotFound = errors.New("transaction not found")

var _ transactionRepo = (*Repo)(nil)

type transactionRepo interface {
	List(ctx context.Context, filters ListFilters) ([]TransactionWithDetails, Summary, error)
	Get(ctx context.Context, id string) (*TransactionWithDetails, error)
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const transactionSelectColumns = `
	t.id, t.user_id, t.transaction_code, t.route_id,
	t.origin_stop_id, t.destination_stop_id,
	t.amount, t.quantity, t.payment_method, t.payment_status,
	t.midtrans_transaction_id, t.midtrans_order_id, t.purchase_date,
	t.created_at, t.updated_at,
	u.id, u.full_name, u.email,
	r.id, r.route_number, r.route_name,
	os.id, os.name,
	ds.id, ds.name`

const transactionJoins = `
		FROM transactions t
		LEFT JOIN users u ON u.id = t.user_id
		LEFT JOIN routes r ON r.id = t.route_id
		LEFT JOIN bus_stops os ON os.id = t.origin_stop_id
		LEFT JOIN bus_stops ds ON ds.id = t.destination_stop_id`

func (r *Repo) List(ctx context.Context, filters ListFilters) ([]TransactionWithDetails, Summary, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "transactionsRepo.List")
	defer span.End()

	where, args := buildListFilters(filters)

	var summary Summary
	summaryQuery := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE t.payment_status = 'completed'),
			COALESCE(SUM(t.amount) FILTER (WHERE t.payment_status = 'completed'), 0)
		FROM transactions t` + where + `;`
	if err := r.db.QueryRow(ctx, summaryQuery, args...).Scan(
		&summary.Total, &summary.Completed, &summary.Revenue,
	); err != nil {
		return nil, Summary{}, fmt.Errorf("transactions summary: %w", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	args = append(args, PageSize, (page-1)*PageSize)

	query := `
		SELECT` + transactionSelectColumns + transactionJoins +
		where +
		fmt.Sprintf(`
		ORDER BY t.created_at DESC
		LIMIT $%d OFFSET $%d;`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, Summary{}, err
	}
	defer rows.Close()

	var all []TransactionWithDetails
	for rows.Next() {
		tx, err := scanTransactionWithDetails(rows)
		if err != nil {
			return nil, Summary{}, err
		}
		all = append(all, *tx)
	}

	return all, summary, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (*TransactionWithDetails, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "transactionsRepo.Get")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT`+transactionSelectColumns+transactionJoins+`
		WHERE t.id = $1;`,
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
		return nil, ErrTransactionNotFound
	}

	tx, err := scanTransactionWithDetails(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	tickets, err := r.ticketsFor(ctx, tx.ID)
	if err != nil {
		return nil, fmt.Errorf("transaction tickets: %w", err)
	}
	tx.Tickets = tickets

	return tx, nil
}

func (r *Repo) ticketsFor(ctx context.Context, transactionID string) ([]Ticket, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, transaction_id, ticket_code, qr_code_data, status, valid_until, used_at, created_at
		FROM tickets
		WHERE transaction_id = $1
		ORDER BY created_at;`,
		transactionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		var ticket Ticket
		if err := rows.Scan(
			&ticket.ID, &ticket.TransactionID, &ticket.TicketCode, &ticket.QRCodeData,
			&ticket.Status, &ticket.ValidUntil, &ticket.UsedAt, &ticket.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}

func buildListFilters(filters ListFilters) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("t.payment_status = $%d", len(args)))
	}
	if filters.Method != "" {
		args = append(args, filters.Method)
		conditions = append(conditions, fmt.Sprintf("t.payment_method = $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		conditions = append(conditions, fmt.Sprintf(
			"(t.transaction_code ILIKE $%d OR t.payment_method ILIKE $%d)", len(args), len(args),
		))
	}
	if !filters.From.IsZero() {
		args = append(args, filters.From)
		conditions = append(conditions, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if !filters.To.IsZero() {
		args = append(args, filters.To)
		conditions = append(conditions, fmt.Sprintf("t.created_at < $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "\n\t\tWHERE " + strings.Join(conditions, " AND "), args
}

func scanTransactionWithDetails(rows pgx.Rows) (*TransactionWithDetails, error) {
	var tx TransactionWithDetails
	var userID, userName *string
	var userEmail *string
	var routeID, routeNumber, routeName *string
	var originID, originName *string
	var destID, destName *string

	if err := rows.Scan(
		&tx.ID, &tx.UserID, &tx.TransactionCode, &tx.RouteID,
		&tx.OriginStopID, &tx.DestinationStopID,
		&tx.Amount, &tx.Quantity, &tx.PaymentMethod, &tx.PaymentStatus,
		&tx.MidtransTransactionID, &tx.MidtransOrderID, &tx.PurchaseDate,
		&tx.CreatedAt, &tx.UpdatedAt,
		&userID, &userName, &userEmail,
		&routeID, &routeNumber, &routeName,
		&originID, &originName,
		&destID, &destName,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	if userID != nil {
		tx.User = &UserSummary{
			ID:       *userID,
			FullName: *userName,
			Email:    userEmail,
		}
	}
	if routeID != nil {
		tx.Route = &RouteSummary{
			ID:          *routeID,
			RouteNumber: *routeNumber,
			RouteName:   *routeName,
		}
	}
	if originID != nil {
		tx.OriginStop = &StopSummary{ID: *originID, Name: *originName}
	}
	if destID != nil {
		tx.DestinationStop = &StopSummary{ID: *destID, Name: *destName}
	}

	return &tx, nil
}
