package activitylog

import (
	"context"
	"sync"
)

var _ entryRepo = (*TestRepo)(nil)

// TestRepo is an in-memory activity log for unit testing
type TestRepo struct {
	mutex   sync.Mutex
	Entries []Entry

	InsertErr error
}

func NewTestRepo() *TestRepo {
	return &TestRepo{}
}

func (r *TestRepo) Insert(_ context.Context, entry Entry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.InsertErr != nil {
		return r.InsertErr
	}
	r.Entries = append(r.Entries, entry)
	return nil
}
