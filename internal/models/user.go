package models

import "time"

// User is the users table row.
type User struct {
	UserID                 string     `db:"user_id"`
	Name                   string     `db:"name"`
	Email                  string     `db:"email"`
	PasswordHash           string     `db:"password_hash"`
	AuthProvider           string     `db:"auth_provider"`
	ProviderUserID         string     `db:"provider_user_id"`
	RefreshTokenHash       string     `db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `db:"refresh_token_expiry_time"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
