package model

import (
	"time"
)

// User is a back office administrator. When no users exist the admin routes
// are open and changes are recorded under the configured default actor; as
// soon as one user exists, admin routes require authentication and the
// username becomes the actor of every change.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username string `gorm:"uniqueIndex;size:128" json:"username"`
	// PasswordHash stores a PHC-formatted argon2id hash of the user's password
	PasswordHash string `json:"-"`
	DisplayName  string `json:"display_name"`
	// Disabled blocks the login without deleting the user
	Disabled bool `json:"disabled"`
}

// UsersStore abstracts CRUD and authentication helpers for admin users.
type UsersStore interface {
	Count() (int64, error)
	List() ([]User, error)
	Get(username string) (*User, error)
	// Create creates a user; the implementation must hash the password
	Create(username, password, displayName string) (*User, error)
	Update(username string, displayName *string, newPassword *string, disabled *bool) (*User, error)
	Delete(username string) error
	// Authenticate checks a username/password combo and returns the user
	Authenticate(username, password string) (*User, error)
}
