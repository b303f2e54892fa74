package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/metrics"
	"github.com/ErlanBelekov/notes-api/internal/security/password"
	"github.com/ErlanBelekov/notes-api/internal/security/token"
	"github.com/ErlanBelekov/notes-api/internal/usecase"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/crypto/bcrypt"
)

// ---- fakes ----

// memUserRepo is an in-memory UserRepository keyed by lowercase email.
type memUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
	creates int

	findByEmailErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	key := strings.ToLower(u.Email)
	if _, ok := r.byEmail[key]; ok {
		return nil, domain.ErrEmailTaken
	}
	stored := *u
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.byEmail[key] = &stored
	cp := stored
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findByEmailErr != nil {
		return nil, r.findByEmailErr
	}
	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			return u.Public(), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.send == nil {
		return nil
	}
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

const testJWTKey = "test-jwt-secret-at-least-32-chars!!"

func newTokens(t *testing.T) *token.Service {
	t.Helper()
	svc, err := token.NewService([]byte(testJWTKey), token.DefaultTTL)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return svc
}

func newAuthUsecase(t *testing.T, repo *memUserRepo, sender *fakeEmailSender) *usecase.AuthUsecase {
	t.Helper()
	if sender == nil {
		sender = &fakeEmailSender{}
	}
	return usecase.NewAuthUsecase(repo, password.NewHasher(bcrypt.MinCost), newTokens(t), sender, slog.Default())
}

func validRegistration() usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:            "Ann",
		Email:           "ann@x.com",
		Password:        "Abcd1234!",
		ConfirmPassword: "Abcd1234!",
	}
}

// ---- Register ----

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	repo := newMemUserRepo()
	uc := newAuthUsecase(t, repo, nil)

	user, err := uc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("returned projection carries the password hash")
	}
	if user.Name != "Ann" || user.Email != "ann@x.com" {
		t.Errorf("projection = %+v", user)
	}

	stored, _ := repo.FindByEmail(context.Background(), "ann@x.com")
	if stored.PasswordHash == "Abcd1234!" {
		t.Fatal("stored hash equals plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Abcd1234!")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegister_SamePasswordHashesDiffer(t *testing.T) {
	repo := newMemUserRepo()
	uc := newAuthUsecase(t, repo, nil)

	in := validRegistration()
	if _, err := uc.Register(context.Background(), in); err != nil {
		t.Fatal(err)
	}
	in.Email = "bob@x.com"
	if _, err := uc.Register(context.Background(), in); err != nil {
		t.Fatal(err)
	}

	a, _ := repo.FindByEmail(context.Background(), "ann@x.com")
	b, _ := repo.FindByEmail(context.Background(), "bob@x.com")
	if a.PasswordHash == b.PasswordHash {
		t.Error("two hashes of the same password are identical")
	}
}

func TestRegister_NormalizesEmailAndName(t *testing.T) {
	repo := newMemUserRepo()
	uc := newAuthUsecase(t, repo, nil)

	in := validRegistration()
	in.Name = "  Ann  "
	in.Email = "  Ann@X.com "
	user, err := uc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "ann@x.com" || user.Name != "Ann" {
		t.Errorf("got name %q email %q", user.Name, user.Email)
	}
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	repo := newMemUserRepo()
	uc := newAuthUsecase(t, repo, nil)

	if _, err := uc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatal(err)
	}

	dup := validRegistration()
	dup.Email = "ANN@X.COM"
	_, err := uc.Register(context.Background(), dup)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
	if repo.creates != 1 {
		t.Errorf("creates = %d, want 1", repo.creates)
	}
	if len(repo.byEmail) != 1 {
		t.Errorf("stored users = %d, want 1", len(repo.byEmail))
	}
}

func TestRegister_ValidationOrder(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*usecase.RegisterInput)
		wantField string
		wantMsg   string
	}{
		{"missing name", func(in *usecase.RegisterInput) { in.Name = "   " }, domain.FieldGeneral, usecase.MsgRequiredFields},
		{"missing confirm", func(in *usecase.RegisterInput) { in.ConfirmPassword = "" }, domain.FieldGeneral, usecase.MsgRequiredFields},
		{"bad email", func(in *usecase.RegisterInput) { in.Email = "ann@x" }, domain.FieldEmail, usecase.MsgInvalidEmail},
		{"bad email and weak password", func(in *usecase.RegisterInput) {
			in.Email = "not-an-email"
			in.Password, in.ConfirmPassword = "abc", "abc"
		}, domain.FieldEmail, usecase.MsgInvalidEmail},
		{"mismatch before complexity", func(in *usecase.RegisterInput) {
			in.Password, in.ConfirmPassword = "abc", "abd"
		}, domain.FieldConfirmPassword, usecase.MsgPasswordMismatch},
		{"weak password", func(in *usecase.RegisterInput) {
			in.Password, in.ConfirmPassword = "abc", "abc"
		}, domain.FieldPassword, usecase.MsgWeakPassword},
		{"password without symbol", func(in *usecase.RegisterInput) {
			in.Password, in.ConfirmPassword = "Abcd12345", "Abcd12345"
		}, domain.FieldPassword, usecase.MsgWeakPassword},
		{"password too long", func(in *usecase.RegisterInput) {
			pw := "Ab1!" + strings.Repeat("x", 69)
			in.Password, in.ConfirmPassword = pw, pw
		}, domain.FieldPassword, usecase.MsgPasswordTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMemUserRepo()
			uc := newAuthUsecase(t, repo, nil)

			in := validRegistration()
			tc.mutate(&in)
			_, err := uc.Register(context.Background(), in)

			ve, ok := domain.AsValidationError(err)
			if !ok {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if ve.Field != tc.wantField || ve.Message != tc.wantMsg {
				t.Errorf("got (%q, %q), want (%q, %q)", ve.Field, ve.Message, tc.wantField, tc.wantMsg)
			}
			if repo.creates != 0 {
				t.Errorf("store written %d times on validation failure", repo.creates)
			}
		})
	}
}

func TestRegister_WeakPasswordNeverReachesStore(t *testing.T) {
	repo := newMemUserRepo()
	repo.findByEmailErr = errors.New("store must not be called")
	uc := newAuthUsecase(t, repo, nil)

	before := testutil.ToFloat64(metrics.RegistrationsTotal.WithLabelValues("invalid"))

	in := validRegistration()
	in.Password, in.ConfirmPassword = "abc", "abc"
	_, err := uc.Register(context.Background(), in)
	if _, ok := domain.AsValidationError(err); !ok {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if repo.creates != 0 {
		t.Errorf("creates = %d, want 0", repo.creates)
	}
	if got := testutil.ToFloat64(metrics.RegistrationsTotal.WithLabelValues("invalid")); got != before+1 {
		t.Errorf("invalid registrations counter = %v, want %v", got, before+1)
	}
}

func TestRegister_EmailFailureDoesNotFailRegistration(t *testing.T) {
	var sentTo string
	sender := &fakeEmailSender{send: func(_ context.Context, to, _, _ string) error {
		sentTo = to
		return errors.New("smtp unavailable")
	}}
	uc := newAuthUsecase(t, newMemUserRepo(), sender)

	if _, err := uc.Register(context.Background(), validRegistration()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sentTo != "ann@x.com" {
		t.Errorf("welcome email sent to %q", sentTo)
	}
}

func TestRegister_StoreErrorPropagates(t *testing.T) {
	repoErr := errors.New("db down")
	repo := newMemUserRepo()
	repo.findByEmailErr = repoErr
	uc := newAuthUsecase(t, repo, nil)

	_, err := uc.Register(context.Background(), validRegistration())
	if !errors.Is(err, repoErr) {
		t.Errorf("want wrapped repoErr, got %v", err)
	}
}

// ---- Login ----

func registerAnn(t *testing.T, uc *usecase.AuthUsecase) *domain.User {
	t.Helper()
	u, err := uc.Register(context.Background(), validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func TestLogin_ReturnsTokenForUser(t *testing.T) {
	uc := newAuthUsecase(t, newMemUserRepo(), nil)
	ann := registerAnn(t, uc)

	res, err := uc.Login(context.Background(), usecase.LoginInput{Email: "Ann@x.com", Password: "Abcd1234!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UserID != ann.ID || res.Name != "Ann" {
		t.Errorf("result = %+v", res)
	}

	got, err := newTokens(t).Verify(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if got != ann.ID {
		t.Errorf("token subject = %v, want %v", got, ann.ID)
	}
	if res.ExpiresAt.Before(time.Now().Add(364 * 24 * time.Hour)) {
		t.Errorf("expiresAt = %v, want ~365 days out", res.ExpiresAt)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	uc := newAuthUsecase(t, newMemUserRepo(), nil)
	registerAnn(t, uc)

	_, err := uc.Login(context.Background(), usecase.LoginInput{Email: "ann@x.com", Password: "Abcd1234?"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmailIsInvalidCredentials(t *testing.T) {
	uc := newAuthUsecase(t, newMemUserRepo(), nil)

	_, err := uc.Login(context.Background(), usecase.LoginInput{Email: "nobody@x.com", Password: "Abcd1234!"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	uc := newAuthUsecase(t, newMemUserRepo(), nil)

	for _, in := range []usecase.LoginInput{
		{Email: "", Password: "Abcd1234!"},
		{Email: "ann@x.com", Password: ""},
	} {
		_, err := uc.Login(context.Background(), in)
		ve, ok := domain.AsValidationError(err)
		if !ok {
			t.Fatalf("want ValidationError, got %v", err)
		}
		if ve.Message != usecase.MsgLoginRequired {
			t.Errorf("message = %q", ve.Message)
		}
	}
}

func TestLogin_StoreErrorIsNotInvalidCredentials(t *testing.T) {
	repo := newMemUserRepo()
	repo.findByEmailErr = errors.New("db down")
	uc := newAuthUsecase(t, repo, nil)

	_, err := uc.Login(context.Background(), usecase.LoginInput{Email: "ann@x.com", Password: "Abcd1234!"})
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want wrapped store error, got %v", err)
	}
}

// ---- Logout ----

func TestLogout_AcceptsAnyToken(t *testing.T) {
	uc := newAuthUsecase(t, newMemUserRepo(), nil)

	uc.Logout(context.Background(), "")
	uc.Logout(context.Background(), "garbage")

	signed, _, err := newTokens(t).Issue(uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	uc.Logout(context.Background(), signed)
}
