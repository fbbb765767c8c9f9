package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const PageSize = 20

// adminEmailDomain keeps staff accounts out of the passenger listings.
// This is a plain data-access filter, not an authorization mechanism.
const adminEmailDomain = "@gerakita.com"

var ErrUserNotFound = errors.New("user not found")

var _ userRepo = (*Repo)(nil)

type userRepo interface {
	List(ctx context.Context, filters ListFilters) ([]UserWithWallet, int, error)
	Get(ctx context.Context, id string) (*UserWithWallet, error)
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

const userSelectColumns = `
	u.id, u.email, u.phone_number, u.full_name, u.profile_image_url,
	u.created_at, u.updated_at,
	w.user_id, w.balance, w.last_updated`

func (r *Repo) List(ctx context.Context, filters ListFilters) ([]UserWithWallet, int, error) {
	where := `
		WHERE (u.email IS NULL OR u.email NOT ILIKE $1)`
	args := []interface{}{"%" + adminEmailDomain}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where += fmt.Sprintf(`
		AND (u.full_name ILIKE $%d OR u.email ILIKE $%d OR u.phone_number ILIKE $%d)`,
			len(args), len(args), len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+where+`;`, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	args = append(args, PageSize, (page-1)*PageSize)

	rows, err := r.db.Query(
		ctx,
		`SELECT`+userSelectColumns+`
		FROM users u
		LEFT JOIN wallets w ON w.user_id = u.id`+
			where+
			fmt.Sprintf(`
		ORDER BY u.created_at DESC
		LIMIT $%d OFFSET $%d;`, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var all []UserWithWallet
	for rows.Next() {
		user, err := scanUserWithWallet(rows)
		if err != nil {
			return nil, 0, err
		}
		all = append(all, *user)
	}

	return all, total, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (*UserWithWallet, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT`+userSelectColumns+`
		FROM users u
		LEFT JOIN wallets w ON w.user_id = u.id
		WHERE u.id = $1;`,
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
		return nil, ErrUserNotFound
	}

	return scanUserWithWallet(rows)
}

func scanUserWithWallet(rows pgx.Rows) (*UserWithWallet, error) {
	var user UserWithWallet
	var walletUserID *string
	var walletBalance *float64
	var walletUpdated *time.Time

	if err := rows.Scan(
		&user.ID, &user.Email, &user.PhoneNumber, &user.FullName, &user.ProfileImageURL,
		&user.CreatedAt, &user.UpdatedAt,
		&walletUserID, &walletBalance, &walletUpdated,
	); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	if walletUserID != nil {
		wallet := &Wallet{
			UserID:      *walletUserID,
			LastUpdated: walletUpdated,
		}
		if walletBalance != nil {
			wallet.Balance = *walletBalance
		}
		user.Wallet = wallet
	}

	return &user, nil
}
