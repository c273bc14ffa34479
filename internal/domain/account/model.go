package account

import "time"

// Platform roles. Role values outside this set are rejected at registration
// and never stored.
const (
	RoleDoctor     = "doctor"
	RoleNurse      = "nurse"
	RolePharmacist = "pharmacist"
	RoleLabTech    = "lab_tech"
	RoleAdmin      = "admin"
)

// ValidRoles lists every accepted role, in the order reported to callers.
var ValidRoles = []string{RoleDoctor, RoleNurse, RolePharmacist, RoleLabTech, RoleAdmin}

// IsValidRole reports whether r is one of the enumerated platform roles.
func IsValidRole(r string) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Account is a platform user record. Email is the sole lookup key and is
// unique across the store. HashedPassword is the opaque bcrypt verifier; it
// is excluded from every JSON response.
type Account struct {
	UserID         string    `db:"user_id" json:"user_id"`
	Email          string    `db:"email" json:"email"`
	FullName       string    `db:"full_name" json:"full_name"`
	Role           string    `db:"role" json:"role"`
	HospitalID     string    `db:"hospital_id" json:"hospital_id"`
	Department     *string   `db:"department" json:"department,omitempty"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Subject implements auth.Principal.
func (a *Account) Subject() string { return a.Email }

// RoleName implements auth.Principal.
func (a *Account) RoleName() string { return a.Role }

// RegisterInput is the payload for the administrative registration operation.
type RegisterInput struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	FullName   string  `json:"full_name"`
	Role       string  `json:"role"`
	HospitalID string  `json:"hospital_id"`
	Department *string `json:"department,omitempty"`
}

// Credentials is the JSON login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
