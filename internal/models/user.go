package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. PinCode is a secondary 4-digit lock on top of
// the password; empty string means no PIN is set.
type User struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`

	PinCode      string `json:"-"`
	RemindPin    bool   `json:"remind_pin"`
	ProfileImage string `json:"profile_image,omitempty"`

	IsActive bool `json:"-"`
	IsStaff  bool `json:"-"`
}

// HasPin reports whether a PIN has been set on the account.
func (u *User) HasPin() bool {
	return u.PinCode != ""
}

// Summary is the minimal public projection returned from register/login.
func (u *User) Summary() map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID.String(),
		"username": u.Username,
		"email":    u.Email,
		"has_pin":  u.HasPin(),
	}
}

// Profile is the authenticated self view returned from /api/users/me/.
func (u *User) Profile() map[string]interface{} {
	return map[string]interface{}{
		"id":            u.ID.String(),
		"username":      u.Username,
		"email":         u.Email,
		"first_name":    u.FirstName,
		"last_name":     u.LastName,
		"has_pin":       u.HasPin(),
		"remind_pin":    u.RemindPin,
		"profile_image": u.ProfileImage,
	}
}
