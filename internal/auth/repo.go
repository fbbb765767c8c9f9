package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrAccountNotFound = errors.New("admin account not found")

var _ accountRepo = (*Repo)(nil)

type accountRepo interface {
	FindByEmail(ctx context.Context, email string) (*AdminAccount, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (*AdminAccount, error) {
	var acc AdminAccount
	err := r.db.QueryRow(
		ctx,
		`SELECT
			id, email, password_hash, full_name, role,
			is_active, last_login, created_at, updated_at
		FROM admin_accounts
		WHERE email = $1;`,
		email,
	).Scan(
		&acc.ID, &acc.Email, &acc.PasswordHash, &acc.FullName, &acc.Role,
		&acc.IsActive, &acc.LastLogin, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *Repo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE admin_accounts SET last_login = $1, updated_at = $1 WHERE id = $2;`,
		at, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		log.Tracef("admin account %s not found, last login not updated", id)
		return ErrAccountNotFound
	}
	return nil
}
