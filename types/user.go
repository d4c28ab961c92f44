package types

import "time"

// Roles a user account can hold.
const (
	// RoleNGO marks fundraiser-privileged accounts that may create
	// and manage campaigns.
	RoleNGO = "ngo"

	// RoleDonor marks ordinary contributor accounts.
	RoleDonor = "donor"
)

// User represents an account in the system.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// FirstName is the user's given name.
	FirstName string `json:"firstName" db:"first_name"`

	// LastName is the user's family name.
	LastName string `json:"lastName" db:"last_name"`

	// Email is the user's email address. Unique across all accounts.
	Email string `json:"email" db:"email"`

	// DOB is the user's date of birth.
	DOB time.Time `json:"dob" db:"dob"`

	// Role indicates the user's capability classification,
	// either RoleNGO or RoleDonor.
	Role string `json:"role" db:"role"`

	// Admin grants administrative override on campaign mutation.
	// No API operation sets it; it is only granted out-of-band.
	Admin bool `json:"-" db:"admin"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// ResetToken is the outstanding password-reset token, if any.
	ResetToken string `json:"-" db:"reset_token"`

	// ResetTokenExpiresAt is when ResetToken stops being valid.
	ResetTokenExpiresAt *time.Time `json:"-" db:"reset_token_expires_at"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ValidRole reports whether role is one of the accepted user roles.
func ValidRole(role string) bool {
	return role == RoleNGO || role == RoleDonor
}
