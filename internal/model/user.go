package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RoleAdmin grants access to the admin management surface.
const RoleAdmin = "admin"

// User is a domain user keyed by the external identity subject.
// Password hash is only present for users with local credentials.
type User struct {
	ID           uuid.UUID       `json:"id"`
	ExternalID   string          `json:"external_id"`
	DisplayName  string          `json:"display_name"`
	Roles        []string        `json:"roles"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	PasswordHash *string         `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// CreateUserRequest is the payload for admin user creation.
type CreateUserRequest struct {
	ExternalID  string          `json:"external_id" binding:"required,min=1,max=255"`
	DisplayName string          `json:"display_name" binding:"required,min=1,max=255"`
	Roles       []string        `json:"roles" binding:"dive,min=1,max=64"`
	Metadata    json.RawMessage `json:"metadata" binding:"omitempty"`
	Password    string          `json:"password" binding:"omitempty,min=8,max=128"`
}

// UpdateUserRequest is the payload for admin user updates.
type UpdateUserRequest struct {
	DisplayName string          `json:"display_name" binding:"required,min=1,max=255"`
	Roles       []string        `json:"roles" binding:"dive,min=1,max=64"`
	Metadata    json.RawMessage `json:"metadata" binding:"omitempty"`
}

// RoleRequest names a single role to add to a user.
type RoleRequest struct {
	Role string `json:"role" binding:"required,min=1,max=64"`
}

// UpdateMetadataRequest replaces a user's metadata bag.
type UpdateMetadataRequest struct {
	Metadata json.RawMessage `json:"metadata" binding:"required"`
}
