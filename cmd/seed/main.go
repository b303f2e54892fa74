// seed registers a test user with a handful of notes in the local dev
// database. Re-runs reuse the existing user.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/email"
	"github.com/ErlanBelekov/notes-api/internal/infrastructure/store"
	"github.com/ErlanBelekov/notes-api/internal/security/password"
	"github.com/ErlanBelekov/notes-api/internal/security/token"
	"github.com/ErlanBelekov/notes-api/internal/usecase"
)

const (
	seedName     = "Seed User"
	seedEmail    = "seed@test.local"
	seedPassword = "Seed1234!"
)

var notes = []usecase.CreateNoteInput{
	{Title: "Groceries", Description: "milk, eggs, coffee"},
	{Title: "Standup", Description: "demo the notes API"},
	{Title: "Reading list", Description: "The Go Programming Language"},
	{Title: "Ideas", Description: "tags, search, sharing"},
	{Title: "Travel", Description: "renew passport"},
}

func main() {
	ctx := context.Background()

	driver := os.Getenv("DATABASE_DRIVER")
	if driver == "" {
		driver = store.DriverPostgres
	}
	dbURL := os.Getenv("DATABASE_URL")
	if driver == store.DriverPostgres && dbURL == "" {
		log.Fatal("DATABASE_URL is not set; run: direnv allow")
	}
	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = "data/notes.db"
	}

	s, err := store.Open(ctx, store.Options{Driver: driver, DatabaseURL: dbURL, SQLitePath: sqlitePath})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := token.NewService([]byte("seed-only"), 0)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	auth := usecase.NewAuthUsecase(s.Users, password.NewHasher(password.DefaultCost), tokens, email.NewLogSender(logger), logger)

	// Register, or reuse the user from an earlier run
	user, err := auth.Register(ctx, usecase.RegisterInput{
		Name:            seedName,
		Email:           seedEmail,
		Password:        seedPassword,
		ConfirmPassword: seedPassword,
	})
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		user, err = s.Users.FindByEmail(ctx, seedEmail)
		if err != nil {
			log.Fatalf("find seed user: %v", err)
		}
	case err != nil:
		log.Fatalf("register seed user: %v", err)
	}

	noteUsecase := usecase.NewNoteUsecase(s.Notes)
	var created []*domain.Note
	for _, in := range notes {
		n, err := noteUsecase.CreateNote(ctx, user.ID, in)
		if err != nil {
			log.Fatalf("create note %q: %v", in.Title, err)
		}
		created = append(created, n)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:          %s / %s\n", seedEmail, seedPassword)
	fmt.Printf("  User ID:       %s\n", user.ID)
	fmt.Printf("  Notes created: %d\n", len(created))
	fmt.Println()
	fmt.Println("  Sample note IDs:")
	for _, n := range created[:2] {
		fmt.Printf("    %s\n", n.ID)
	}

	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1: log in")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:5000/api/user/login \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println("    # → {\"success\":true,\"token\":\"eyJ...\",...}")
	fmt.Println()
	fmt.Println("  Step 2: list your notes")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Printf("    curl -s http://localhost:5000/api/notes/%s -H \"Authorization: Bearer $JWT\"\n", user.ID)
	fmt.Println()
	fmt.Println("  Step 3: delete one (use any ID from above)")
	fmt.Println()
	fmt.Println("    curl -s -X DELETE http://localhost:5000/api/notes/NOTE_ID -H \"Authorization: Bearer $JWT\"")
}
