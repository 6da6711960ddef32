package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus represents the state of a user account.
type UserStatus string

const (
	UserStatusActive  UserStatus = "ACTIVE"
	UserStatusBlocked UserStatus = "BLOCKED"
)

// User represents a registered wallet user.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Email        *string    `json:"email,omitempty"`
	PasswordHash *string    `json:"-"` // Argon2id; nil for OTP-only users
	Status       UserStatus `json:"status"`
	Verified     bool       `json:"verified"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsActive returns true if the user may transact.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
