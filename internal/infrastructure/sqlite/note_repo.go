package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/repository"
	"github.com/google/uuid"
)

const noteColumns = `id, user_id, title, description, created_at, updated_at`

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	now := time.Now().UTC()
	n := &domain.Note{
		ID:          uuid.New(),
		UserID:      note.UserID,
		Title:       note.Title,
		Description: note.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO notes (`+noteColumns+`)
VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID.String(), n.UserID.String(), n.Title, n.Description, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id.String())
	return scanNote(row)
}

func (r *NoteRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+noteColumns+`
FROM notes
WHERE user_id = ?
ORDER BY created_at ASC`,
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []*domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, input repository.UpdateNoteInput) (*domain.Note, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE notes
SET title = ?, description = ?, updated_at = ?
WHERE id = ? AND user_id = ?`,
		input.Title, input.Description, time.Now().UTC(), input.ID.String(), input.UserID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, input.ID)
}

func (r *NoteRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`,
		id.String(), userID.String(),
	)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var n domain.Note
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return &n, nil
}
