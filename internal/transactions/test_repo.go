package transactions

import (
	"context"
	"strings"
	"sync"
)

var _ transactionRepo = (*TestRepo)(nil)

// TestRepo is an in-memory transaction repo for unit testing
type TestRepo struct {
	mutex        sync.Mutex
	Transactions []TransactionWithDetails

	Err error
}

func NewTestRepo(all ...TransactionWithDetails) *TestRepo {
	return &TestRepo{Transactions: all}
}

func (r *TestRepo) List(_ context.Context, filters ListFilters) ([]TransactionWithDetails, Summary, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return nil, Summary{}, r.Err
	}

	var filtered []TransactionWithDetails
	var summary Summary
	for _, tx := range r.Transactions {
		if filters.Status != "" && tx.PaymentStatus != filters.Status {
			continue
		}
		if filters.Method != "" && tx.PaymentMethod != filters.Method {
			continue
		}
		if filters.Search != "" && !txMatches(tx, filters.Search) {
			continue
		}
		if !filters.From.IsZero() && tx.CreatedAt.Before(filters.From) {
			continue
		}
		if !filters.To.IsZero() && !tx.CreatedAt.Before(filters.To) {
			continue
		}
		filtered = append(filtered, tx)
		summary.Total++
		if tx.PaymentStatus == PaymentCompleted {
			summary.Completed++
			summary.Revenue += tx.Amount
		}
	}
	return filtered, summary, nil
}

func (r *TestRepo) Get(_ context.Context, id string) (*TransactionWithDetails, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	for i := range r.Transactions {
		if r.Transactions[i].ID == id {
			return &r.Transactions[i], nil
		}
	}
	return nil, ErrTransactionNotFound
}

func txMatches(tx TransactionWithDetails, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(tx.TransactionCode), search) ||
		strings.Contains(strings.ToLower(tx.PaymentMethod), search)
}
