package domain

import "time"

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents a user of the application in the domain.
type User struct {
	UserID         string       `json:"userID"` // Primary Key (UUID)
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"` // bcrypt; empty for external providers
	AuthProvider   AuthProvider `json:"authProvider"`
	ProviderUserID string       `json:"-"` // Subject id at the external provider

	// Refresh token state; only the SHA256 hash is ever stored.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`

	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Soft delete
}

// GoogleUserInfo is the subset of the Google userinfo payload the app consumes.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
