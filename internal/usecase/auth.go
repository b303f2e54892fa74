package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/email"
	"github.com/ErlanBelekov/notes-api/internal/metrics"
	"github.com/ErlanBelekov/notes-api/internal/repository"
	"github.com/ErlanBelekov/notes-api/internal/security/password"
	"github.com/ErlanBelekov/notes-api/internal/security/token"
	"github.com/google/uuid"
)

const (
	MsgRequiredFields   = "All fields are required"
	MsgInvalidEmail     = "Invalid email format"
	MsgPasswordMismatch = "Passwords do not match"
	MsgWeakPassword     = "Password must be at least 8 characters long and include uppercase, lowercase, number, and special character"
	MsgPasswordTooLong  = "Password must be at most 72 bytes long"
	MsgLoginRequired    = "Email and password are required"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

type tokenService interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
	Verify(raw string) (uuid.UUID, error)
}

type AuthUsecase struct {
	users  repository.UserRepository
	hasher passwordHasher
	tokens tokenService
	email  email.Sender
	logger *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthUsecase(users repository.UserRepository, hasher passwordHasher, tokens tokenService, emailSender email.Sender, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		email:  emailSender,
		logger: logger.With("component", "auth_usecase"),
	}
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register validates input, stores a new user with a bcrypt digest of the
// password and returns the public projection. Every validation failure is
// a *domain.ValidationError returned before the store is touched.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	emailAddr := normalizeEmail(input.Email)

	if err := validateRegistration(name, emailAddr, input.Password, input.ConfirmPassword); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if _, err := u.users.FindByEmail(ctx, emailAddr); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	digest, err := u.hash(input.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// the unique index catches a concurrent registration that slipped past
	// the lookup above
	created, err := u.users.Create(ctx, &domain.User{
		Name:         name,
		Email:        emailAddr,
		PasswordHash: digest,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return nil, domain.ErrEmailTaken
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create user: %w", err)
	}
	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()

	subject, body := email.Welcome(created.Name)
	if err := u.email.Send(ctx, created.Email, subject, body); err != nil {
		u.logger.WarnContext(ctx, "send welcome email", "user_id", created.ID, "error", err)
	}

	return created.Public(), nil
}

func validateRegistration(name, emailAddr, pw, confirm string) error {
	if name == "" || emailAddr == "" || pw == "" || confirm == "" {
		return domain.NewValidationError(domain.FieldGeneral, MsgRequiredFields)
	}
	if !emailPattern.MatchString(emailAddr) {
		return domain.NewValidationError(domain.FieldEmail, MsgInvalidEmail)
	}
	if pw != confirm {
		return domain.NewValidationError(domain.FieldConfirmPassword, MsgPasswordMismatch)
	}
	if err := password.CheckComplexity(pw); err != nil {
		if errors.Is(err, password.ErrPasswordTooLong) {
			return domain.NewValidationError(domain.FieldPassword, MsgPasswordTooLong)
		}
		return domain.NewValidationError(domain.FieldPassword, MsgWeakPassword)
	}
	return nil
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token     string
	UserID    uuid.UUID
	Name      string
	ExpiresAt time.Time
}

// Login checks credentials and issues a session token. Unknown email and
// wrong password both yield domain.ErrInvalidCredentials.
func (u *AuthUsecase) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	emailAddr := normalizeEmail(input.Email)
	if emailAddr == "" || input.Password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.NewValidationError(domain.FieldGeneral, MsgLoginRequired)
	}

	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// burn the same bcrypt work a real account would cost
			_, _ = u.verify(input.Password, u.dummyDigest())
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	ok, err := u.verify(input.Password, user.PasswordHash)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	signed, expiresAt, err := u.tokens.Issue(user.ID)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	return &LoginResult{
		Token:     signed,
		UserID:    user.ID,
		Name:      user.Name,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout is stateless: tokens cannot be revoked, so the client simply
// drops its copy. A valid token is only used to record who logged out.
func (u *AuthUsecase) Logout(ctx context.Context, rawToken string) {
	if rawToken == "" {
		u.logger.InfoContext(ctx, "logout")
		return
	}
	userID, err := u.tokens.Verify(rawToken)
	if err != nil {
		u.logger.InfoContext(ctx, "logout with unusable token", "reason", token.Reason(err))
		return
	}
	u.logger.InfoContext(ctx, "logout", "user_id", userID)
}

func (u *AuthUsecase) hash(plaintext string) (string, error) {
	start := time.Now()
	defer func() { metrics.PasswordHashDuration.Observe(time.Since(start).Seconds()) }()
	return u.hasher.Hash(plaintext)
}

func (u *AuthUsecase) verify(plaintext, digest string) (bool, error) {
	start := time.Now()
	defer func() { metrics.PasswordHashDuration.Observe(time.Since(start).Seconds()) }()
	return u.hasher.Verify(plaintext, digest)
}

func (u *AuthUsecase) dummyDigest() string {
	u.dummyOnce.Do(func() {
		digest, err := u.hasher.Hash("dummy-Passw0rd!")
		if err != nil {
			u.logger.Warn("build dummy password hash", "error", err)
			return
		}
		u.dummyHash = digest
	})
	return u.dummyHash
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
