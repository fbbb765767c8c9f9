package drivers

import (
	"context"
	"strings"
	"sync"
)

var _ driverRepo = (*TestRepo)(nil)

// TestRepo is an in-memory driver repo for unit testing
type TestRepo struct {
	mutex   sync.Mutex
	Drivers []DriverWithBus

	Err error
}

func NewTestRepo(all ...DriverWithBus) *TestRepo {
	return &TestRepo{Drivers: all}
}

func (r *TestRepo) All(_ context.Context, search string) ([]DriverWithBus, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	if search == "" {
		return r.Drivers, nil
	}

	var filtered []DriverWithBus
	for _, driver := range r.Drivers {
		if strings.Contains(strings.ToLower(driver.FullName), strings.ToLower(search)) {
			filtered = append(filtered, driver)
		}
	}
	return filtered, nil
}

func (r *TestRepo) Get(_ context.Context, id string) (*DriverWithBus, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	for i := range r.Drivers {
		if r.Drivers[i].ID == id {
			return &r.Drivers[i], nil
		}
	}
	return nil, ErrDriverNotFound
}

func (r *TestRepo) Update(_ context.Context, id string, form DriverForm) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return r.Err
	}
	for i := range r.Drivers {
		if r.Drivers[i].ID == id {
			r.Drivers[i].FullName = form.FullName
			r.Drivers[i].Email = form.Email
			r.Drivers[i].PhoneNumber = form.PhoneNumber
			r.Drivers[i].BusID = form.BusID
			return nil
		}
	}
	return ErrDriverNotFound
}

func (r *TestRepo) AssignBus(_ context.Context, id string, busID *string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return r.Err
	}
	for i := range r.Drivers {
		if r.Drivers[i].ID == id {
			r.Drivers[i].BusID = busID
			return nil
		}
	}
	return ErrDriverNotFound
}
