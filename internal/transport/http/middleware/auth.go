package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/metrics"
	"github.com/ErlanBelekov/notes-api/internal/reqctx"
	"github.com/ErlanBelekov/notes-api/internal/security/token"
	"github.com/ErlanBelekov/notes-api/internal/transport/http/respond"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	errUnauthorized   = "Unauthorized"
	errUserNotFound   = "User not found"
	errInternalServer = "Server error"

	currentUserKey = "currentUser"
)

type tokenVerifier interface {
	Verify(raw string) (uuid.UUID, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Auth is the gate in front of every notes route. It verifies the bearer
// token, loads the user it names (without the password hash) and stores it
// for CurrentUser. Any failure aborts the chain.
func Auth(tokens tokenVerifier, users userFinder, mode respond.StatusMode, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "auth_gateway")

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		raw, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			metrics.AuthFailuresTotal.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		userID, err := tokens.Verify(raw)
		if err != nil {
			// the reason stays server-side
			reason := token.Reason(err)
			metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
			logger.WarnContext(ctx, "token rejected", "reason", reason, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				metrics.AuthFailuresTotal.WithLabelValues("unknown_user").Inc()
				logger.WarnContext(ctx, "token for unknown user", "user_id", userID)
				status := mode.UnknownUser()
				msg := errUserNotFound
				if status == http.StatusUnauthorized {
					msg = errUnauthorized
				}
				c.AbortWithStatusJSON(status, gin.H{"error": msg})
				return
			}
			logger.ErrorContext(ctx, "load authenticated user", "user_id", userID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// SetCurrentUser attaches user to the gin context and its ID to the
// request context.
func SetCurrentUser(c *gin.Context, user *domain.User) {
	c.Set(currentUserKey, user)
	c.Request = c.Request.WithContext(reqctx.WithUserID(c.Request.Context(), user.ID))
}

// CurrentUser returns the user attached by Auth.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok && u != nil
}

// BearerToken extracts the credential from an "Authorization: Bearer <t>"
// header value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	return raw, true
}
