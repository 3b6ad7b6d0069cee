// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"library/internal/domain/entity"
)

// ErrMemberNotFound is returned when no member matches a lookup.
var ErrMemberNotFound = errors.New("member not found")

// MemberRepository defines the persistence operations for members.
type MemberRepository interface {
	// FindByID retrieves a single member by their identifier.
	FindByID(ctx context.Context, id uint64) (*entity.Member, error)

	// FindByEmail retrieves a member by email. The lookup is case-insensitive.
	FindByEmail(ctx context.Context, email string) (*entity.Member, error)

	// Create persists a new member and fills in the generated ID.
	// A conflicting email yields domainerrors.ErrDuplicateEmail.
	Create(ctx context.Context, member *entity.Member) error
}
