// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"library/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new member.
type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LoginInput defines the data required for a member to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// LoginOutput returns the session token generated after a successful login.
type LoginOutput struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	ExpiresIn   time.Duration
	Member      *entity.Member
}

// MemberUsecase defines the interface for membership operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type MemberUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*entity.Member, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Authenticate resolves a session token to the member it was issued for.
	Authenticate(ctx context.Context, token string) (uint64, error)
}
