package handler_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/convoo/convoo-backend/internal/domain"
	"github.com/convoo/convoo-backend/internal/transport/http/handler"
	"github.com/convoo/convoo-backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeVerification implements the unexported verificationUsecaser interface
// via method matching.
type fakeVerification struct {
	signup func(ctx context.Context, in usecase.SignupInput) (string, error)
	verify func(ctx context.Context, rawToken string) (*domain.User, string, error)
	resend func(ctx context.Context, email string) error
}

func (f *fakeVerification) Signup(ctx context.Context, in usecase.SignupInput) (string, error) {
	return f.signup(ctx, in)
}

func (f *fakeVerification) Verify(ctx context.Context, rawToken string) (*domain.User, string, error) {
	return f.verify(ctx, rawToken)
}

func (f *fakeVerification) Resend(ctx context.Context, email string) error {
	return f.resend(ctx, email)
}

type fakeAuth struct {
	login             func(ctx context.Context, email, password string) (*domain.User, string, error)
	authenticatedUser func(ctx context.Context, userID string) (*domain.User, error)
	updateProfilePic  func(ctx context.Context, userID, url string) (*domain.User, error)
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	return f.login(ctx, email, password)
}

func (f *fakeAuth) AuthenticatedUser(ctx context.Context, userID string) (*domain.User, error) {
	return f.authenticatedUser(ctx, userID)
}

func (f *fakeAuth) UpdateProfilePic(ctx context.Context, userID, url string) (*domain.User, error) {
	return f.updateProfilePic(ctx, userID, url)
}

var testUser = &domain.User{
	ID:       "user-1",
	Email:    "test@example.com",
	FullName: "Test User",
}

func newTestEngine(v *fakeVerification, a *fakeAuth) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewAuthHandler(v, a, logger, false)

	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/verify-email", h.VerifyEmail)
	r.POST("/auth/resend-verification", h.ResendVerification)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "jwt" {
			return c
		}
	}
	return nil
}

// ---- Signup ----

func TestSignup_InvalidJSON_Returns400(t *testing.T) {
	w := postJSON(newTestEngine(&fakeVerification{}, &fakeAuth{}), "/auth/signup", `{bad json}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSignup_ShortPassword_Returns400(t *testing.T) {
	w := postJSON(newTestEngine(&fakeVerification{}, &fakeAuth{}), "/auth/signup",
		`{"fullName":"A","email":"a@x.com","password":"12345"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSignup_EmailTaken_Returns400(t *testing.T) {
	v := &fakeVerification{
		signup: func(_ context.Context, _ usecase.SignupInput) (string, error) {
			return "", domain.ErrEmailTaken
		},
	}
	w := postJSON(newTestEngine(v, &fakeAuth{}), "/auth/signup",
		`{"fullName":"A","email":"a@x.com","password":"secret1"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSignup_DeliveryFailure_Returns500(t *testing.T) {
	v := &fakeVerification{
		signup: func(_ context.Context, _ usecase.SignupInput) (string, error) {
			return "", fmt.Errorf("%w: smtp unavailable", domain.ErrDeliveryFailed)
		},
	}
	w := postJSON(newTestEngine(v, &fakeAuth{}), "/auth/signup",
		`{"fullName":"A","email":"a@x.com","password":"secret1"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestSignup_Success_Returns200WithEmail(t *testing.T) {
	v := &fakeVerification{
		signup: func(_ context.Context, in usecase.SignupInput) (string, error) {
			return in.Email, nil
		},
	}
	w := postJSON(newTestEngine(v, &fakeAuth{}), "/auth/signup",
		`{"fullName":"A","email":"a@x.com","password":"secret1"}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"a@x.com"`) {
		t.Errorf("body %q does not echo the email", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "token") {
		t.Errorf("body %q must not leak a token", w.Body.String())
	}
}

// ---- VerifyEmail ----

func TestVerifyEmail_MissingToken_Returns400(t *testing.T) {
	v := &fakeVerification{
		verify: func(_ context.Context, rawToken string) (*domain.User, string, error) {
			if rawToken != "" {
				t.Errorf("rawToken = %q, want empty", rawToken)
			}
			return nil, "", fmt.Errorf("%w: verification token is required", domain.ErrValidation)
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/verify-email", nil)
	newTestEngine(v, &fakeAuth{}).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestVerifyEmail_InvalidToken_Returns400(t *testing.T) {
	v := &fakeVerification{
		verify: func(_ context.Context, _ string) (*domain.User, string, error) {
			return nil, "", domain.ErrTokenInvalid
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/verify-email?token=bad", nil)
	newTestEngine(v, &fakeAuth{}).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if sessionCookie(w) != nil {
		t.Error("failed verification must not set a session cookie")
	}
}

func TestVerifyEmail_Success_Returns201AndSetsCookie(t *testing.T) {
	const fakeJWT = "header.payload.signature"
	v := &fakeVerification{
		verify: func(_ context.Context, _ string) (*domain.User, string, error) {
			return testUser, fakeJWT, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/verify-email?token=validtoken", nil)
	newTestEngine(v, &fakeAuth{}).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"_id":"user-1"`) {
		t.Errorf("body %q missing _id", w.Body.String())
	}

	cookie := sessionCookie(w)
	if cookie == nil {
		t.Fatal("missing jwt cookie")
	}
	if cookie.Value != fakeJWT {
		t.Errorf("cookie value = %q, want %q", cookie.Value, fakeJWT)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
}

// ---- ResendVerification ----

func TestResend_NoPending_Returns404(t *testing.T) {
	v := &fakeVerification{
		resend: func(_ context.Context, _ string) error {
			return domain.ErrPendingNotFound
		},
	}
	w := postJSON(newTestEngine(v, &fakeAuth{}), "/auth/resend-verification",
		`{"email":"a@x.com"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestResend_AlreadyVerified_Returns400(t *testing.T) {
	v := &fakeVerification{
		resend: func(_ context.Context, _ string) error {
			return domain.ErrAlreadyVerified
		},
	}
	w := postJSON(newTestEngine(v, &fakeAuth{}), "/auth/resend-verification",
		`{"email":"a@x.com"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestResend_Success_Returns200(t *testing.T) {
	v := &fakeVerification{
		resend: func(_ context.Context, email string) error {
			if email != "a@x.com" {
				t.Errorf("email = %q", email)
			}
			return nil
		},
	}
	w := postJSON(newTestEngine(v, &fakeAuth{}), "/auth/resend-verification",
		`{"email":"a@x.com"}`)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// ---- Login / Logout ----

func TestLogin_InvalidCredentials_Returns400(t *testing.T) {
	a := &fakeAuth{
		login: func(_ context.Context, _, _ string) (*domain.User, string, error) {
			return nil, "", domain.ErrInvalidCredentials
		},
	}
	w := postJSON(newTestEngine(&fakeVerification{}, a), "/auth/login",
		`{"email":"a@x.com","password":"wrong"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if sessionCookie(w) != nil {
		t.Error("failed login must not set a session cookie")
	}
}

func TestLogin_Success_Returns200AndSetsCookie(t *testing.T) {
	a := &fakeAuth{
		login: func(_ context.Context, _, _ string) (*domain.User, string, error) {
			return testUser, "signed.jwt.here", nil
		},
	}
	w := postJSON(newTestEngine(&fakeVerification{}, a), "/auth/login",
		`{"email":"test@example.com","password":"secret1"}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	cookie := sessionCookie(w)
	if cookie == nil || cookie.Value != "signed.jwt.here" {
		t.Fatalf("cookie = %v, want jwt cookie with the session token", cookie)
	}
	if strings.Contains(w.Body.String(), "passwordHash") {
		t.Error("response must not contain the password hash")
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	w := postJSON(newTestEngine(&fakeVerification{}, &fakeAuth{}), "/auth/logout", ``)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	cookie := sessionCookie(w)
	if cookie == nil {
		t.Fatal("logout must send an expiring jwt cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Errorf("cookie = {value:%q maxAge:%d}, want empty and expired", cookie.Value, cookie.MaxAge)
	}
}
