package buses

import "time"

type Status string

const (
	StatusAvailable    Status = "available"
	StatusFull         Status = "full"
	StatusMaintenance  Status = "maintenance"
	StatusOutOfService Status = "out_of_service"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusFull, StatusMaintenance, StatusOutOfService:
		return true
	}
	return false
}

type Bus struct {
	ID                 string     `json:"id"`
	BusNumber          string     `json:"bus_number"`
	RouteID            *string    `json:"route_id,omitempty"`
	TotalSeats         int        `json:"total_seats"`
	AvailableSeats     int        `json:"available_seats"`
	Status             Status     `json:"status"`
	CurrentLatitude    *float64   `json:"current_latitude,omitempty"`
	CurrentLongitude   *float64   `json:"current_longitude,omitempty"`
	LastLocationUpdate *time.Time `json:"last_location_update,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type RouteSummary struct {
	ID          string `json:"id"`
	RouteNumber string `json:"route_number"`
	RouteName   string `json:"route_name"`
}

type DriverSummary struct {
	ID          string  `json:"id"`
	FullName    string  `json:"full_name"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

type BusWithRelations struct {
	Bus
	Route  *RouteSummary  `json:"route,omitempty"`
	Driver *DriverSummary `json:"driver,omitempty"`
}

// BusForm mirrors the admin bus create/edit form
type BusForm struct {
	BusNumber  string  `json:"bus_number" validate:"required"`
	RouteID    *string `json:"route_id" validate:"omitempty,uuid"`
	TotalSeats int     `json:"total_seats" validate:"required,min=1"`
	Status     Status  `json:"status" validate:"omitempty,oneof=available full maintenance out_of_service"`
}

type ListFilters struct {
	Status  Status
	RouteID string
	Search  string
	Page    int
}
