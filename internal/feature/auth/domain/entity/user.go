// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
// It starts inactive and becomes active once the emailed activation code is confirmed.
type User struct {
	// ID is the unique identifier for the user, assigned by the store.
	ID uint `gorm:"primaryKey"`
	// Email is the user's email address used for authentication.
	// It is unique across all users and compared case-sensitively.
	Email string `gorm:"uniqueIndex;size:256;not null"`
	// Password is the bcrypt hash of the user's password.
	// This should never store plaintext passwords.
	Password string `gorm:"size:256;not null"`
	// IsActive reports whether the account passed code verification.
	IsActive bool `gorm:"not null;default:false"`
	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
