// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"
)

// Member is a registered library member. Members are created once and never edited here.
type Member struct {
	ID           uint64    // Numeric identifier assigned by storage on creation.
	Name         string    // Display name.
	Email        string    // Login key, stored normalized (see NormalizeEmail).
	PasswordHash string    // bcrypt digest, never the plaintext.
	CreatedAt    time.Time // Timestamp of registration.
}

// NormalizeEmail returns the canonical form used for both uniqueness and login lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
