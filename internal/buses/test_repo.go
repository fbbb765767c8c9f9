package buses

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var _ busRepo = (*TestRepo)(nil)

// TestRepo is an in-memory bus repo for unit testing
type TestRepo struct {
	mutex sync.Mutex
	Buses []BusWithRelations

	Err error
}

func NewTestRepo(all ...BusWithRelations) *TestRepo {
	return &TestRepo{Buses: append([]BusWithRelations(nil), all...)}
}

func (r *TestRepo) List(_ context.Context, filters ListFilters) ([]BusWithRelations, int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return nil, 0, r.Err
	}

	var filtered []BusWithRelations
	for _, bus := range r.Buses {
		if filters.Status != "" && bus.Status != filters.Status {
			continue
		}
		if filters.RouteID != "" && (bus.RouteID == nil || *bus.RouteID != filters.RouteID) {
			continue
		}
		if filters.Search != "" && !strings.Contains(
			strings.ToLower(bus.BusNumber), strings.ToLower(filters.Search),
		) {
			continue
		}
		filtered = append(filtered, bus)
	}
	return filtered, len(filtered), nil
}

func (r *TestRepo) Get(_ context.Context, id string) (*BusWithRelations, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	for i := range r.Buses {
		if r.Buses[i].ID == id {
			return &r.Buses[i], nil
		}
	}
	return nil, ErrBusNotFound
}

func (r *TestRepo) Add(_ context.Context, bus *Bus) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return r.Err
	}
	bus.ID = uuid.NewString()
	r.Buses = append(r.Buses, BusWithRelations{Bus: *bus})
	return nil
}

func (r *TestRepo) Update(_ context.Context, id string, form BusForm) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return r.Err
	}
	for i := range r.Buses {
		if r.Buses[i].ID == id {
			r.Buses[i].BusNumber = form.BusNumber
			r.Buses[i].RouteID = form.RouteID
			r.Buses[i].TotalSeats = form.TotalSeats
			r.Buses[i].Status = form.Status
			return nil
		}
	}
	return ErrBusNotFound
}

func (r *TestRepo) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return r.Err
	}
	for i := range r.Buses {
		if r.Buses[i].ID == id {
			r.Buses = append(r.Buses[:i], r.Buses[i+1:]...)
			return nil
		}
	}
	return ErrBusNotFound
}
