// Package entity contains the core business objects of the project.
package entity

import "time"

// Role represents the access level of a user account.
type Role string

const (
	// RoleUser indicates a regular customer account.
	RoleUser Role = "user"
	// RoleAdmin indicates a restaurant administrator account.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// UserProfile is the per-account profile document stored in the users
// collection, keyed by the identity provider's UID. It is created on
// signup (always RoleUser) or merged on first federated sign-in, never
// overwriting an existing role. The role field is not client-writable.
type UserProfile struct {
	UID       string    `json:"uid"`       // Identity provider UID, also the document key.
	Email     string    `json:"email"`     // Primary contact email.
	FullName  string    `json:"fullName"`  // Display name.
	Phone     string    `json:"phone"`     // Contact number, used to prefill checkout.
	Address   string    `json:"address"`   // Default delivery address, used to prefill checkout.
	Role      Role      `json:"role"`      // RoleUser or RoleAdmin.
	CreatedAt time.Time `json:"createdAt"` // Timestamp of profile creation.
}

// IsAdmin reports whether this profile grants administrator access.
// It is strictly a role comparison; a missing profile means not admin.
func (p *UserProfile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
