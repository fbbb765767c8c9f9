package auth

import (
	"context"
	"sync"
	"time"
)

var _ accountRepo = (*TestRepo)(nil)

// TestRepo is an in-memory account repo for unit and dev testing
type TestRepo struct {
	mutex    sync.Mutex
	accounts map[string]*AdminAccount // keyed by email

	FindErr            error
	UpdateLastLoginErr error
}

func NewTestRepo(accounts ...*AdminAccount) *TestRepo {
	r := &TestRepo{
		accounts: make(map[string]*AdminAccount),
	}
	for _, acc := range accounts {
		r.accounts[acc.Email] = acc
	}
	return r
}

func (r *TestRepo) FindByEmail(_ context.Context, email string) (*AdminAccount, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.FindErr != nil {
		return nil, r.FindErr
	}

	acc, ok := r.accounts[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	accCopy := *acc
	return &accCopy, nil
}

func (r *TestRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.UpdateLastLoginErr != nil {
		return r.UpdateLastLoginErr
	}

	for _, acc := range r.accounts {
		if acc.ID == id {
			lastLogin := at
			acc.LastLogin = &lastLogin
			return nil
		}
	}
	return ErrAccountNotFound
}
