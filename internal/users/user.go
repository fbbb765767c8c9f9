package users

import "time"

// User is a passenger account of the mobile app. Admins only view these,
// the mobile-facing API owns all mutations.
type User struct {
	ID              string    `json:"id"`
	Email           *string   `json:"email,omitempty"`
	PhoneNumber     *string   `json:"phone_number,omitempty"`
	FullName        string    `json:"full_name"`
	ProfileImageURL *string   `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Wallet struct {
	UserID      string     `json:"user_id"`
	Balance     float64    `json:"balance"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

type UserWithWallet struct {
	User
	Wallet *Wallet `json:"wallet,omitempty"`
}

type ListFilters struct {
	Search string
	Page   int
}
