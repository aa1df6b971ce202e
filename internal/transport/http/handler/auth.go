package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/convoo/convoo-backend/internal/domain"
	"github.com/convoo/convoo-backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

// verificationUsecaser is the subset of VerificationUsecase the handler
// needs. Defined here (point of use) so tests can inject a fake.
type verificationUsecaser interface {
	Signup(ctx context.Context, in usecase.SignupInput) (string, error)
	Verify(ctx context.Context, rawToken string) (*domain.User, string, error)
	Resend(ctx context.Context, email string) error
}

type authUsecaser interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	AuthenticatedUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfilePic(ctx context.Context, userID, url string) (*domain.User, error)
}

type AuthHandler struct {
	verification  verificationUsecaser
	auth          authUsecaser
	logger        *slog.Logger
	secureCookies bool
}

func NewAuthHandler(verification verificationUsecaser, auth authUsecaser, logger *slog.Logger, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		verification:  verification,
		auth:          auth,
		logger:        logger.With("component", "auth_handler"),
		secureCookies: secureCookies,
	}
}

type signupRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	emailAddr, err := h.verification.Signup(c.Request.Context(), usecase.SignupInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": errEmailTaken})
		case errors.Is(err, domain.ErrDeliveryFailed):
			h.logger.ErrorContext(c.Request.Context(), "signup delivery", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errDeliveryFailed})
		default:
			h.logger.ErrorContext(c.Request.Context(), "signup", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification email sent. Please check your inbox to verify your account.",
		"email":   emailAddr,
	})
}

type verifyResponse struct {
	domain.PublicUser
	Message string `json:"message"`
}

// GET /auth/verify-email?token=<raw>
// Promotes the pending signup and signs the new user in via cookie.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	rawToken := c.Query("token")

	user, sessionToken, err := h.verification.Verify(c.Request.Context(), rawToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": errTokenInvalid})
		default:
			h.logger.ErrorContext(c.Request.Context(), "verify email", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	h.setSessionCookie(c, sessionToken)
	c.JSON(http.StatusCreated, verifyResponse{
		PublicUser: user.Public(),
		Message:    "Email verified successfully!",
	})
}

type resendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /auth/resend-verification
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.verification.Resend(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrAlreadyVerified):
			c.JSON(http.StatusBadRequest, gin.H{"error": errAlreadyVerified})
		case errors.Is(err, domain.ErrPendingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errNoPending})
		case errors.Is(err, domain.ErrDeliveryFailed):
			h.logger.ErrorContext(c.Request.Context(), "resend delivery", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errDeliveryFailed})
		default:
			h.logger.ErrorContext(c.Request.Context(), "resend verification", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification email resent. Please check your inbox."})
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, sessionToken, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCredentials})
		default:
			h.logger.ErrorContext(c.Request.Context(), "login", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	h.setSessionCookie(c, sessionToken)
	c.JSON(http.StatusOK, user.Public())
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GET /auth/check — behind the auth middleware.
func (h *AuthHandler) Check(c *gin.Context) {
	user, err := h.auth.AuthenticatedUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "check auth", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

type updateProfileRequest struct {
	ProfilePic string `json:"profilePic" binding:"required"`
}

// PUT /auth/update-profile — behind the auth middleware.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.UpdateProfilePic(c.Request.Context(), c.GetString("userID"), req.ProfilePic)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
		default:
			h.logger.ErrorContext(c.Request.Context(), "update profile", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, user.Public())
}
