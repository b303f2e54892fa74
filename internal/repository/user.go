package repository

import (
	"context"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	// Create persists a new user and returns it with its generated ID.
	// Returns domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByEmail returns the full record, password hash included.
	// Email must already be normalized (trimmed, lowercased).
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID returns the public projection; PasswordHash is never loaded.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
