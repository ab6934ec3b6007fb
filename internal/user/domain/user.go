package domain

import (
	"time"

	"github.com/taskhub/taskhub-backend/pkg/principal"
)

// User represents a user in the system
type User struct {
	ID           string         `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Email        string         `json:"email" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Role         principal.Role `json:"role" db:"role"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Principal converts the user to a request principal.
func (u *User) Principal() *principal.Principal {
	return &principal.Principal{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// PublicProfile is the subset of user fields exposed over the API.
type PublicProfile struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Role  principal.Role `json:"role"`
}

// Profile returns the public view of the user.
func (u *User) Profile() *PublicProfile {
	return &PublicProfile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
