package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/notes-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginResult, error)
	Logout(ctx context.Context, rawToken string)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type userResponse struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type registerResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Token   string    `json:"token"`
	UserID  uuid.UUID `json:"userId"`
}

// failure is the error body of the /api/user routes.
type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// POST /api/user/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure{Message: errInvalidBody, Field: domain.FieldGeneral})
		return
	}

	user, err := h.authUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if ve, ok := domain.AsValidationError(err); ok {
			c.JSON(http.StatusBadRequest, failure{Message: ve.Message, Field: ve.Field})
			return
		}
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, failure{Message: errUserExists, Field: domain.FieldEmail})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "register user", "error", err)
		c.JSON(http.StatusInternalServerError, failure{Message: errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		Success: true,
		Message: msgUserCreated,
		User:    userResponse{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// POST /api/user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure{Message: errInvalidBody})
		return
	}

	res, err := h.authUsecase.Login(c.Request.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if ve, ok := domain.AsValidationError(err); ok {
			c.JSON(http.StatusBadRequest, failure{Message: ve.Message})
			return
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, failure{Message: errInvalidCredentials})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
		c.JSON(http.StatusInternalServerError, failure{Message: errInternalServer})
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Message: fmt.Sprintf(msgLoginSuccess, res.Name),
		Token:   res.Token,
		UserID:  res.UserID,
	})
}

// POST /api/user/logout
// Always 200; the token, if any, is only used for the audit log.
func (h *AuthHandler) Logout(c *gin.Context) {
	raw, _ := middleware.BearerToken(c.GetHeader("Authorization"))
	h.authUsecase.Logout(c.Request.Context(), raw)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgLoggedOut})
}
