package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/metrics"
	"github.com/ErlanBelekov/notes-api/internal/repository"
	"github.com/google/uuid"
)

type NoteUsecase struct {
	notes repository.NoteRepository
}

func NewNoteUsecase(notes repository.NoteRepository) *NoteUsecase {
	return &NoteUsecase{notes: notes}
}

type CreateNoteInput struct {
	Title       string
	Description string
}

// CreateNote stores a note owned by actorID. The owner always comes from
// the authenticated identity, never from the request body.
func (u *NoteUsecase) CreateNote(ctx context.Context, actorID uuid.UUID, input CreateNoteInput) (*domain.Note, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Description) == "" {
		return nil, domain.NewValidationError(domain.FieldGeneral, MsgRequiredFields)
	}

	note, err := u.notes.Create(ctx, &domain.Note{
		UserID:      actorID,
		Title:       title,
		Description: input.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// ListNotes returns the caller's notes. requestedUserID may be uuid.Nil
// (meaning the caller); any other value must equal actorID.
func (u *NoteUsecase) ListNotes(ctx context.Context, actorID, requestedUserID uuid.UUID) ([]*domain.Note, error) {
	if requestedUserID != uuid.Nil && requestedUserID != actorID {
		metrics.OwnershipDenialsTotal.WithLabelValues("list").Inc()
		return nil, domain.ErrForbidden
	}

	notes, err := u.notes.ListByOwner(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if len(notes) == 0 {
		return nil, domain.ErrNoteNotFound
	}
	return notes, nil
}

// UpdateNoteInput fields left nil keep their stored value, as do empty
// strings.
type UpdateNoteInput struct {
	Title       *string
	Description *string
}

func (u *NoteUsecase) UpdateNote(ctx context.Context, actorID, noteID uuid.UUID, input UpdateNoteInput) (*domain.Note, error) {
	note, err := u.authorizeOwner(ctx, "update", actorID, noteID)
	if err != nil {
		return nil, err
	}

	title := note.Title
	if input.Title != nil {
		if t := strings.TrimSpace(*input.Title); t != "" {
			title = t
		}
	}
	description := note.Description
	if input.Description != nil && strings.TrimSpace(*input.Description) != "" {
		description = *input.Description
	}

	updated, err := u.notes.Update(ctx, repository.UpdateNoteInput{
		ID:          note.ID,
		UserID:      actorID,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return updated, nil
}

func (u *NoteUsecase) DeleteNote(ctx context.Context, actorID, noteID uuid.UUID) error {
	if _, err := u.authorizeOwner(ctx, "delete", actorID, noteID); err != nil {
		return err
	}
	if err := u.notes.Delete(ctx, noteID, actorID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// authorizeOwner loads the note and checks that actorID owns it.
// Returns domain.ErrNoteNotFound or domain.ErrForbidden otherwise.
func (u *NoteUsecase) authorizeOwner(ctx context.Context, op string, actorID, noteID uuid.UUID) (*domain.Note, error) {
	note, err := u.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	if !note.OwnedBy(actorID) {
		metrics.OwnershipDenialsTotal.WithLabelValues(op).Inc()
		return nil, domain.ErrForbidden
	}
	return note, nil
}
