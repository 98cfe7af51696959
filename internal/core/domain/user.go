package domain

import "time"

// User represents an application user.
type User struct {
	UserID                 string     `json:"userID"` // Primary Key (UUID)
	Name                   string     `json:"name"`
	Email                  string     `json:"email"`
	PasswordHash           string     `json:"-"` // bcrypt; empty for OAuth-only users
	AuthProvider           string     `json:"authProvider"`     // "local" or "google"
	ProviderUserID         string     `json:"providerUserID"`   // subject from the external provider
	RefreshTokenHash       string     `json:"-"`                // SHA-256 of the current refresh token
	RefreshTokenExpiryTime *time.Time `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
