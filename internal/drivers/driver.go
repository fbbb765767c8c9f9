package drivers

import "time"

type Driver struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           *string   `json:"email,omitempty"`
	PhoneNumber     *string   `json:"phone_number,omitempty"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	BusID           *string   `json:"bus_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type BusSummary struct {
	ID        string `json:"id"`
	BusNumber string `json:"bus_number"`
	Status    string `json:"status"`
}

type DriverWithBus struct {
	Driver
	Bus *BusSummary `json:"bus,omitempty"`
}

// DriverForm mirrors the admin driver edit form
type DriverForm struct {
	FullName    string  `json:"full_name" validate:"required"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number"`
	BusID       *string `json:"bus_id" validate:"omitempty,uuid"`
}
