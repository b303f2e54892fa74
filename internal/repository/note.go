package repository

import (
	"context"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/google/uuid"
)

type UpdateNoteInput struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
}

// NoteRepository stores notes. Update and Delete are scoped by (id, user_id)
// and return domain.ErrNoteNotFound when no row matches both.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) (*domain.Note, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error)
	Update(ctx context.Context, input UpdateNoteInput) (*domain.Note, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
