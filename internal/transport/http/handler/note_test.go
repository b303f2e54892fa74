package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/notes-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/notes-api/internal/transport/http/respond"
	"github.com/ErlanBelekov/notes-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fakeNoteUsecase struct {
	create func(ctx context.Context, actorID uuid.UUID, input usecase.CreateNoteInput) (*domain.Note, error)
	list   func(ctx context.Context, actorID, requestedUserID uuid.UUID) ([]*domain.Note, error)
	update func(ctx context.Context, actorID, noteID uuid.UUID, input usecase.UpdateNoteInput) (*domain.Note, error)
	delete func(ctx context.Context, actorID, noteID uuid.UUID) error
}

func (f *fakeNoteUsecase) CreateNote(ctx context.Context, actorID uuid.UUID, input usecase.CreateNoteInput) (*domain.Note, error) {
	return f.create(ctx, actorID, input)
}

func (f *fakeNoteUsecase) ListNotes(ctx context.Context, actorID, requestedUserID uuid.UUID) ([]*domain.Note, error) {
	return f.list(ctx, actorID, requestedUserID)
}

func (f *fakeNoteUsecase) UpdateNote(ctx context.Context, actorID, noteID uuid.UUID, input usecase.UpdateNoteInput) (*domain.Note, error) {
	return f.update(ctx, actorID, noteID, input)
}

func (f *fakeNoteUsecase) DeleteNote(ctx context.Context, actorID, noteID uuid.UUID) error {
	return f.delete(ctx, actorID, noteID)
}

var ann = &domain.User{ID: uuid.New(), Name: "Ann", Email: "ann@x.com"}

// newNoteEngine mounts the note routes behind a stand-in for the auth
// middleware that authenticates every request as user. A nil user leaves
// the request anonymous.
func newNoteEngine(uc *fakeNoteUsecase, mode respond.StatusMode, user *domain.User) *gin.Engine {
	h := handler.NewNoteHandler(uc, mode, testLogger())

	r := gin.New()
	g := r.Group("/api/notes", func(c *gin.Context) {
		if user != nil {
			middleware.SetCurrentUser(c, user)
		}
		c.Next()
	})
	g.POST("/createNote", h.Create)
	g.POST("/getNote", h.GetNotes)
	g.POST("/update", h.Update)
	g.POST("/delete", h.Delete)
	g.GET("/:userId", h.ListNotes)
	g.PUT("/:id", h.UpdateByID)
	g.DELETE("/:id", h.DeleteByID)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func sampleNote(owner uuid.UUID) *domain.Note {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Note{ID: uuid.New(), UserID: owner, Title: "T", Description: "D", CreatedAt: now, UpdatedAt: now}
}

// ---- Create ----

func TestCreateNote_WithoutUser_Returns401(t *testing.T) {
	w := doJSON(newNoteEngine(&fakeNoteUsecase{}, respond.Legacy, nil),
		http.MethodPost, "/api/notes/createNote", `{"title":"T","description":"D"}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCreateNote_OwnerIsCaller(t *testing.T) {
	var gotActor uuid.UUID
	uc := &fakeNoteUsecase{
		create: func(_ context.Context, actorID uuid.UUID, in usecase.CreateNoteInput) (*domain.Note, error) {
			gotActor = actorID
			n := sampleNote(actorID)
			n.Title, n.Description = in.Title, in.Description
			return n, nil
		},
	}
	w := doJSON(newNoteEngine(uc, respond.Legacy, ann),
		http.MethodPost, "/api/notes/createNote", `{"title":"Groceries","description":"milk","user":"someone-else"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	if gotActor != ann.ID {
		t.Errorf("actor = %s, want %s", gotActor, ann.ID)
	}
	body := decode(t, w)
	if body["user"] != ann.ID.String() || body["title"] != "Groceries" {
		t.Errorf("body = %v", body)
	}
}

func TestCreateNote_ValidationError_Returns400(t *testing.T) {
	uc := &fakeNoteUsecase{
		create: func(_ context.Context, _ uuid.UUID, _ usecase.CreateNoteInput) (*domain.Note, error) {
			return nil, domain.NewValidationError(domain.FieldTitle, "Title and description are required")
		},
	}
	w := doJSON(newNoteEngine(uc, respond.Legacy, ann),
		http.MethodPost, "/api/notes/createNote", `{}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateNote_StoreError_Returns500(t *testing.T) {
	uc := &fakeNoteUsecase{
		create: func(_ context.Context, _ uuid.UUID, _ usecase.CreateNoteInput) (*domain.Note, error) {
			return nil, errors.New("connection refused")
		},
	}
	w := doJSON(newNoteEngine(uc, respond.Legacy, ann),
		http.MethodPost, "/api/notes/createNote", `{"title":"T","description":"D"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body := decode(t, w); body["error"] != "Failed to create note." {
		t.Errorf("body = %v", body)
	}
}

// ---- List ----

func TestGetNotes_EmptyBodyListsCallerNotes(t *testing.T) {
	var gotRequested uuid.UUID
	uc := &fakeNoteUsecase{
		list: func(_ context.Context, actorID, requested uuid.UUID) ([]*domain.Note, error) {
			gotRequested = requested
			return []*domain.Note{sampleNote(actorID), sampleNote(actorID)}, nil
		},
	}
	w := doJSON(newNoteEngine(uc, respond.Legacy, ann),
		http.MethodPost, "/api/notes/getNote", ``)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if gotRequested != uuid.Nil {
		t.Errorf("requested = %s, want nil", gotRequested)
	}
	if n := strings.Count(w.Body.String(), `"_id"`); n != 2 {
		t.Errorf("notes in body = %d, want 2", n)
	}
}

func TestListNotes_OtherUser(t *testing.T) {
	uc := &fakeNoteUsecase{
		list: func(_ context.Context, _, _ uuid.UUID) ([]*domain.Note, error) {
			return nil, domain.ErrForbidden
		},
	}

	tests := []struct {
		mode respond.StatusMode
		want int
	}{
		{respond.Legacy, http.StatusUnauthorized},
		{respond.Conventional, http.StatusForbidden},
	}
	for _, tc := range tests {
		w := doJSON(newNoteEngine(uc, tc.mode, ann),
			http.MethodGet, "/api/notes/"+uuid.NewString(), ``)
		if w.Code != tc.want {
			t.Errorf("mode %v: status = %d, want %d", tc.mode, w.Code, tc.want)
		}
	}
}

func TestListNotes_NoNotes_Returns404(t *testing.T) {
	uc := &fakeNoteUsecase{
		list: func(_ context.Context, _, _ uuid.UUID) ([]*domain.Note, error) {
			return nil, domain.ErrNoteNotFound
		},
	}
	w := doJSON(newNoteEngine(uc, respond.Legacy, ann),
		http.MethodGet, "/api/notes/"+ann.ID.String(), ``)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if body := decode(t, w); body["error"] != "No notes found for this user" {
		t.Errorf("body = %v", body)
	}
}

func TestListNotes_InvalidUserID_Returns400(t *testing.T) {
	w := doJSON(newNoteEngine(&fakeNoteUsecase{}, respond.Legacy, ann),
		http.MethodGet, "/api/notes/not-a-uuid", ``)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ---- Update ----

func TestUpdateNote_PartialFieldsPassedThrough(t *testing.T) {
	noteID := uuid.New()
	var got usecase.UpdateNoteInput
	uc := &fakeNoteUsecase{
		update: func(_ context.Context, actorID, id uuid.UUID, in usecase.UpdateNoteInput) (*domain.Note, error) {
			got = in
			n := sampleNote(actorID)
			n.ID = id
			n.Title = *in.Title
			return n, nil
		},
	}
	w := doJSON(newNoteEngine(uc, respond.Legacy, ann),
		http.MethodPost, "/api/notes/update", `{"id":"`+noteID.String()+`","title":"New"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	if got.Title == nil || *got.Title != "New" || got.Description != nil {
		t.Errorf("input = %+v", got)
	}
	if body := decode(t, w); body["_id"] != noteID.String() || body["title"] != "New" {
		t.Errorf("body = %v", body)
	}
}

func TestUpdateNote_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		mode respond.StatusMode
		err  error
		want int
		msg  string
	}{
		{"not found legacy", respond.Legacy, domain.ErrNoteNotFound, http.StatusBadRequest, "Note not found."},
		{"not found conventional", respond.Conventional, domain.ErrNoteNotFound, http.StatusNotFound, "Note not found."},
		{"not owner legacy", respond.Legacy, domain.ErrForbidden, http.StatusUnauthorized, "Not authorized."},
		{"not owner conventional", respond.Conventional, domain.ErrForbidden, http.StatusForbidden, "Not authorized."},
		{"store failure", respond.Legacy, errors.New("boom"), http.StatusInternalServerError, "Failed to update note."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc := &fakeNoteUsecase{
				update: func(_ context.Context, _, _ uuid.UUID, _ usecase.UpdateNoteInput) (*domain.Note, error) {
					return nil, tc.err
				},
			}
			w := doJSON(newNoteEngine(uc, tc.mode, ann),
				http.MethodPut, "/api/notes/"+uuid.NewString(), `{"title":"x"}`)

			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
			if body := decode(t, w); body["error"] != tc.msg {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestUpdateNote_InvalidID_Returns400(t *testing.T) {
	w := doJSON(newNoteEngine(&fakeNoteUsecase{}, respond.Legacy, ann),
		http.MethodPost, "/api/notes/update", `{"id":"123","title":"x"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body := decode(t, w); body["error"] != "Invalid note id" {
		t.Errorf("body = %v", body)
	}
}

// ---- Delete ----

func TestDeleteNote_Success(t *testing.T) {
	noteID := uuid.New()
	var gotActor, gotNote uuid.UUID
	uc := &fakeNoteUsecase{
		delete: func(_ context.Context, actorID, id uuid.UUID) error {
			gotActor, gotNote = actorID, id
			return nil
		},
	}
	w := doJSON(newNoteEngine(uc, respond.Legacy, ann),
		http.MethodPost, "/api/notes/delete", `{"id":"`+noteID.String()+`"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotActor != ann.ID || gotNote != noteID {
		t.Errorf("actor, note = %s, %s", gotActor, gotNote)
	}
	if body := decode(t, w); body["message"] != "Note deleted successfully." {
		t.Errorf("body = %v", body)
	}
}

func TestDeleteNoteByID_NotOwner(t *testing.T) {
	uc := &fakeNoteUsecase{
		delete: func(_ context.Context, _, _ uuid.UUID) error { return domain.ErrForbidden },
	}
	w := doJSON(newNoteEngine(uc, respond.Legacy, ann),
		http.MethodDelete, "/api/notes/"+uuid.NewString(), ``)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
