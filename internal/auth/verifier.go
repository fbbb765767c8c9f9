package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gerakita/busadmin/pkg"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so callers cannot be used for account enumeration
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrLookupFailed       = errors.New("admin account lookup failed")
)

// Verifier checks an email/password pair against stored admin accounts
type Verifier struct {
	repo accountRepo
	// ability to inject time func (for unit testing)
	NowFunc func() time.Time
}

func NewVerifier(repo accountRepo) *Verifier {
	return &Verifier{
		repo:    repo,
		NowFunc: time.Now,
	}
}

func (v *Verifier) Verify(ctx context.Context, email, password string) (*AdminAccount, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	acc, err := v.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	if !acc.IsActive {
		return nil, ErrAccountDeactivated
	}

	if !pkg.CheckPasswordHash(password, acc.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// best-effort, must never block a successful login
	if err := v.repo.UpdateLastLogin(ctx, acc.ID, v.NowFunc()); err != nil {
		log.Warnf("update last login for %s: %s", acc.ID, err)
	}

	return acc, nil
}
