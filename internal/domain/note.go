package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNoteNotFound = errors.New("note not found")

// Note is owned by exactly one user. UserID is set at creation and never
// rewritten.
type Note struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether userID is the note's owner.
func (n *Note) OwnedBy(userID uuid.UUID) bool {
	return n.UserID == userID
}
