package users

import (
	"context"
	"strings"
	"sync"
)

var _ userRepo = (*TestRepo)(nil)

// TestRepo is an in-memory passenger repo for unit testing
type TestRepo struct {
	mutex sync.Mutex
	Users []UserWithWallet

	Err error
}

func NewTestRepo(all ...UserWithWallet) *TestRepo {
	return &TestRepo{Users: all}
}

func (r *TestRepo) List(_ context.Context, filters ListFilters) ([]UserWithWallet, int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return nil, 0, r.Err
	}

	var filtered []UserWithWallet
	for _, user := range r.Users {
		if user.Email != nil && strings.HasSuffix(strings.ToLower(*user.Email), adminEmailDomain) {
			continue
		}
		if filters.Search != "" && !userMatches(user, filters.Search) {
			continue
		}
		filtered = append(filtered, user)
	}
	return filtered, len(filtered), nil
}

func (r *TestRepo) Get(_ context.Context, id string) (*UserWithWallet, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	for i := range r.Users {
		if r.Users[i].ID == id {
			return &r.Users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

func userMatches(user UserWithWallet, search string) bool {
	search = strings.ToLower(search)
	if strings.Contains(strings.ToLower(user.FullName), search) {
		return true
	}
	if user.Email != nil && strings.Contains(strings.ToLower(*user.Email), search) {
		return true
	}
	if user.PhoneNumber != nil && strings.Contains(*user.PhoneNumber, search) {
		return true
	}
	return false
}
