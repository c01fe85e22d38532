package entities

import (
	"errors"
	"time"
)

// Theme is the UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Role gates access to admin surfaces. Authorization checks the role claim,
// never a hardcoded identity.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Profile is the explicit per-user context (language, theme, role) passed
// into services that need it. Created at login, torn down at logout.
type Profile struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	Language  Language  `json:"language" bson:"language"`
	Theme     Theme     `json:"theme" bson:"theme"`
	Role      Role      `json:"role" bson:"role"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Validate validates the profile data.
func (p *Profile) Validate() error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Role != RoleUser && p.Role != RoleAdmin {
		return errors.New("invalid role")
	}
	return nil
}
