package auth

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
	RoleViewer     Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin, RoleViewer:
		return true
	}
	return false
}

// CanMutate - viewers get read-only access to the dashboard
func (r Role) CanMutate() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// AdminAccount is a row of the admin_accounts table. Accounts are seeded
// out-of-band (cmd/adminhash) and never deleted here; the only mutation
// is the last-login timestamp.
type AdminAccount struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
