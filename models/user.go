package models

import "time"

// User represents an account that owns or shares checklists.
type User struct {
	// UserID is the internal identifier; it never leaves the server in JSON.
	UserID int64 `json:"-"`

	// Login is the unique user login.
	Login string `json:"login"`

	// Password is the plaintext password received on register/login.
	// It is never persisted.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt hash stored in the database.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Share grants UserID access to the checklist ContainerID.
type Share struct {
	ContainerID string    `json:"checklist_id"`
	UserID      int64     `json:"-"`
	Login       string    `json:"login"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShareRequest is the body of POST /api/checklists/{checklistID}/shares.
type ShareRequest struct {
	Login string `json:"login"`
}
