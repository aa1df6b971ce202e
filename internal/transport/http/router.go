package httptransport

import (
	"log/slog"

	"github.com/convoo/convoo-backend/internal/transport/http/handler"
	"github.com/convoo/convoo-backend/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, jwtKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	auth := r.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/verify-email", authHandler.VerifyEmail)
	auth.POST("/resend-verification", authHandler.ResendVerification)

	// Routes that need a signed-in user
	protected := auth.Group("", middleware.Auth(jwtKey))
	protected.GET("/check", authHandler.Check)
	protected.PUT("/update-profile", authHandler.UpdateProfile)

	return r
}
