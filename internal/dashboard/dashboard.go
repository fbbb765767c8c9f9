package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

// Stats is the overview card payload of the dashboard landing page.
type Stats struct {
	TotalUsers         int     `json:"total_users"`
	ActiveBuses        int     `json:"active_buses"`
	TodayTransactions  int     `json:"today_transactions"`
	TodayRevenue       float64 `json:"today_revenue"`
	TotalWalletBalance float64 `json:"total_wallet_balance"`
	UserGrowth         float64 `json:"user_growth"`
}

type statsRepo interface {
	TotalUsers(ctx context.Context) (int, error)
	ActiveBuses(ctx context.Context) (int, error)
	TodayTransactions(ctx context.Context, dayStart time.Time) (int, float64, error)
	TotalWalletBalance(ctx context.Context) (float64, error)
	NewUsersBetween(ctx context.Context, from, to time.Time) (int, error)
}

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 60 // seconds
)

// Service computes the overview stats. Every dashboard load fans out to
// five aggregate queries, so results are memoized for a minute.
type Service struct {
	repo  statsRepo
	cache *freecache.Cache

	// NowFunc is swapped in tests, real callers leave it nil
	NowFunc func() time.Time
}

func NewService(repo statsRepo) *Service {
	return &Service{
		repo:  repo,
		cache: freecache.NewCache(1024 * 1024),
	}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if cached, err := s.cache.Get([]byte(statsCacheKey)); err == nil {
		var stats Stats
		if err := json.Unmarshal(cached, &stats); err != nil {
			log.Errorf("dashboard stats cache decode: %s", err)
		} else {
			return &stats, nil
		}
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set([]byte(statsCacheKey), encoded, statsCacheTTL); err != nil {
			log.Warnf("dashboard stats cache set: %s", err)
		}
	}

	return stats, nil
}

func (s *Service) compute(ctx context.Context) (*Stats, error) {
	now := time.Now()
	if s.NowFunc != nil {
		now = s.NowFunc()
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var stats Stats
	var err error

	if stats.TotalUsers, err = s.repo.TotalUsers(ctx); err != nil {
		return nil, fmt.Errorf("total users: %w", err)
	}
	if stats.ActiveBuses, err = s.repo.ActiveBuses(ctx); err != nil {
		return nil, fmt.Errorf("active buses: %w", err)
	}
	if stats.TodayTransactions, stats.TodayRevenue, err = s.repo.TodayTransactions(ctx, dayStart); err != nil {
		return nil, fmt.Errorf("today transactions: %w", err)
	}
	if stats.TotalWalletBalance, err = s.repo.TotalWalletBalance(ctx); err != nil {
		return nil, fmt.Errorf("wallet balance: %w", err)
	}

	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)
	thisWeek, err := s.repo.NewUsersBetween(ctx, weekAgo, now)
	if err != nil {
		return nil, fmt.Errorf("users this week: %w", err)
	}
	lastWeek, err := s.repo.NewUsersBetween(ctx, twoWeeksAgo, weekAgo)
	if err != nil {
		return nil, fmt.Errorf("users last week: %w", err)
	}
	stats.UserGrowth = growth(float64(thisWeek), float64(lastWeek))

	return &stats, nil
}

// growth is the percentage change between two windows; a zero previous
// window counts as 100% growth when anything happened at all.
func growth(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return ((current - previous) / previous) * 100
}
