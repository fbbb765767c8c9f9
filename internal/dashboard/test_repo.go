package dashboard

import (
	"context"
	"sync"
	"time"
)

var _ statsRepo = (*TestRepo)(nil)

// TestRepo serves canned aggregates for unit testing
type TestRepo struct {
	mutex sync.Mutex

	Users         int
	Buses         int
	TodayCount    int
	TodayRevenue  float64
	WalletBalance float64
	// UsersByWindow maps window start (unix) to new user counts
	UsersByWindow map[int64]int

	Calls int
	Err   error
}

func (r *TestRepo) TotalUsers(_ context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Calls++
	return r.Users, r.Err
}

func (r *TestRepo) ActiveBuses(_ context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Calls++
	return r.Buses, r.Err
}

func (r *TestRepo) TodayTransactions(_ context.Context, _ time.Time) (int, float64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Calls++
	return r.TodayCount, r.TodayRevenue, r.Err
}

func (r *TestRepo) TotalWalletBalance(_ context.Context) (float64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Calls++
	return r.WalletBalance, r.Err
}

func (r *TestRepo) NewUsersBetween(_ context.Context, from, _ time.Time) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Calls++
	if r.Err != nil {
		return 0, r.Err
	}
	return r.UsersByWindow[from.Unix()], nil
}
