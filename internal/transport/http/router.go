package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/notes-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/notes-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

// NewRouter mounts the user routes openly and every note route behind
// authMW.
func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, noteHandler *handler.NoteHandler, authMW gin.HandlerFunc, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(middleware.CORS(corsOrigins))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	users := r.Group("/api/user")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/logout", authHandler.Logout)

	notes := r.Group("/api/notes", authMW)
	notes.POST("/createNote", noteHandler.Create)
	notes.POST("/getNote", noteHandler.GetNotes)
	notes.POST("/update", noteHandler.Update)
	notes.POST("/delete", noteHandler.Delete)

	// REST aliases
	notes.POST("", noteHandler.Create)
	notes.GET("/:userId", noteHandler.ListNotes)
	notes.PUT("/:id", noteHandler.UpdateByID)
	notes.DELETE("/:id", noteHandler.DeleteByID)

	return r
}
