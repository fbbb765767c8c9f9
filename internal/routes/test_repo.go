package routes

import "context"

var _ routesRepo = (*TestRepo)(nil)

// TestRepo is an in-memory routes repo for unit testing
type TestRepo struct {
	Routes []Route

	Err error
}

func NewTestRepo(all ...Route) *TestRepo {
	return &TestRepo{Routes: all}
}

func (r *TestRepo) All(_ context.Context) ([]Route, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Routes, nil
}

func (r *TestRepo) Get(_ context.Context, id string) (*Route, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	for i := range r.Routes {
		if r.Routes[i].ID == id {
			return &r.Routes[i], nil
		}
	}
	return nil, ErrRouteNotFound
}
