// Package cache decorates the user store with an in-process TTL cache for
// the lookup the auth gateway performs on every protected request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/repository"
	"github.com/allegro/bigcache/v3"
	"github.com/google/uuid"
)

type cachedUser struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRepository caches FindByID projections. Create and FindByEmail go
// straight to the wrapped store; the latter returns the password hash,
// which is never cached.
type UserRepository struct {
	next   repository.UserRepository
	cache  *bigcache.BigCache
	logger *slog.Logger
}

// NewUserRepository wraps next with a cache whose entries live for ttl.
// A deleted user keeps authenticating until their entry expires.
func NewUserRepository(ctx context.Context, next repository.UserRepository, ttl time.Duration, logger *slog.Logger) (*UserRepository, error) {
	cfg := bigcache.DefaultConfig(ttl)
	cfg.CleanWindow = ttl
	cfg.Verbose = false

	c, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create user cache: %w", err)
	}
	return &UserRepository{
		next:   next,
		cache:  c,
		logger: logger.With("component", "user_cache"),
	}, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.next.Create(ctx, user)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.next.FindByEmail(ctx, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	key := id.String()

	buf, err := r.cache.Get(key)
	if err == nil {
		var cu cachedUser
		if err := json.Unmarshal(buf, &cu); err == nil {
			return &domain.User{
				ID:        cu.ID,
				Name:      cu.Name,
				Email:     cu.Email,
				CreatedAt: cu.CreatedAt,
				UpdatedAt: cu.UpdatedAt,
			}, nil
		}
		r.logger.WarnContext(ctx, "corrupt cache entry", "user_id", key)
	} else if !errors.Is(err, bigcache.ErrEntryNotFound) {
		r.logger.WarnContext(ctx, "user cache get", "error", err)
	}

	u, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	buf, err = json.Marshal(cachedUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
	if err == nil {
		err = r.cache.Set(key, buf)
	}
	if err != nil {
		r.logger.WarnContext(ctx, "user cache set", "error", err)
	}
	return u, nil
}

// Close stops the cache's cleanup goroutine.
func (r *UserRepository) Close() error {
	return r.cache.Close()
}
