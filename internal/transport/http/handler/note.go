package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/notes-api/internal/transport/http/respond"
	"github.com/ErlanBelekov/notes-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type noteUsecaser interface {
	CreateNote(ctx context.Context, actorID uuid.UUID, input usecase.CreateNoteInput) (*domain.Note, error)
	ListNotes(ctx context.Context, actorID, requestedUserID uuid.UUID) ([]*domain.Note, error)
	UpdateNote(ctx context.Context, actorID, noteID uuid.UUID, input usecase.UpdateNoteInput) (*domain.Note, error)
	DeleteNote(ctx context.Context, actorID, noteID uuid.UUID) error
}

type NoteHandler struct {
	noteUsecase noteUsecaser
	mode        respond.StatusMode
	logger      *slog.Logger
}

func NewNoteHandler(noteUsecase noteUsecaser, mode respond.StatusMode, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		noteUsecase: noteUsecase,
		mode:        mode,
		logger:      logger.With("component", "note_handler"),
	}
}

type createNoteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type listNotesRequest struct {
	UserID string `json:"userId"`
}

type updateNoteRequest struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type deleteNoteRequest struct {
	ID string `json:"id"`
}

type noteResponse struct {
	ID          uuid.UUID `json:"_id"`
	User        uuid.UUID `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toNoteResponse(n *domain.Note) noteResponse {
	return noteResponse{
		ID:          n.ID,
		User:        n.UserID,
		Title:       n.Title,
		Description: n.Description,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

// POST /api/notes/createNote, POST /api/notes
func (h *NoteHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	note, err := h.noteUsecase.CreateNote(c.Request.Context(), actor.ID, usecase.CreateNoteInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		if ve, ok := domain.AsValidationError(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create note", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errCreateNote})
		return
	}

	c.JSON(http.StatusCreated, toNoteResponse(note))
}

// POST /api/notes/getNote
// The optional userId must name the caller.
func (h *NoteHandler) GetNotes(c *gin.Context) {
	var req listNotesRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}
	h.listNotes(c, req.UserID)
}

// GET /api/notes/:userId
func (h *NoteHandler) ListNotes(c *gin.Context) {
	h.listNotes(c, c.Param("userId"))
}

func (h *NoteHandler) listNotes(c *gin.Context, rawUserID string) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	requested := uuid.Nil
	if rawUserID != "" {
		id, err := uuid.Parse(rawUserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidUserID})
			return
		}
		requested = id
	}

	notes, err := h.noteUsecase.ListNotes(c.Request.Context(), actor.ID, requested)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(h.mode.Forbidden(), gin.H{"error": errNotAuthorized})
		case errors.Is(err, domain.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errNoNotesFound})
		default:
			h.logger.ErrorContext(c.Request.Context(), "list notes", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errListNotes})
		}
		return
	}

	resp := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, toNoteResponse(n))
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/notes/update
func (h *NoteHandler) Update(c *gin.Context) {
	var req updateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}
	h.update(c, req.ID, req)
}

// PUT /api/notes/:id
func (h *NoteHandler) UpdateByID(c *gin.Context) {
	var req updateNoteRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}
	h.update(c, c.Param("id"), req)
}

func (h *NoteHandler) update(c *gin.Context, rawID string, req updateNoteRequest) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	noteID, ok := parseNoteID(c, rawID)
	if !ok {
		return
	}

	note, err := h.noteUsecase.UpdateNote(c.Request.Context(), actor.ID, noteID, usecase.UpdateNoteInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.writeMutationError(c, "update note", errUpdateNote, err)
		return
	}

	c.JSON(http.StatusOK, toNoteResponse(note))
}

// POST /api/notes/delete
func (h *NoteHandler) Delete(c *gin.Context) {
	var req deleteNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}
	h.delete(c, req.ID)
}

// DELETE /api/notes/:id
func (h *NoteHandler) DeleteByID(c *gin.Context) {
	h.delete(c, c.Param("id"))
}

func (h *NoteHandler) delete(c *gin.Context, rawID string) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	noteID, ok := parseNoteID(c, rawID)
	if !ok {
		return
	}

	if err := h.noteUsecase.DeleteNote(c.Request.Context(), actor.ID, noteID); err != nil {
		h.writeMutationError(c, "delete note", errDeleteNote, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgNoteDeleted})
}

func (h *NoteHandler) writeMutationError(c *gin.Context, op, fallback string, err error) {
	switch {
	case errors.Is(err, domain.ErrNoteNotFound):
		c.JSON(h.mode.NoteNotFound(), gin.H{"error": errNoteNotFound})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(h.mode.Forbidden(), gin.H{"error": errNotAuthorized})
	default:
		h.logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// actor returns the authenticated user or writes 401. Only reachable
// without a user when a route is mounted outside the auth group.
func (h *NoteHandler) actor(c *gin.Context) (*domain.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		return nil, false
	}
	return user, true
}

func parseNoteID(c *gin.Context, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidNoteID})
		return uuid.Nil, false
	}
	return id, true
}
