package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/convoo/convoo-backend/internal/domain"
	"github.com/convoo/convoo-backend/internal/email"
	"github.com/convoo/convoo-backend/internal/metrics"
	"github.com/convoo/convoo-backend/internal/repository"
	"github.com/convoo/convoo-backend/internal/security"
	"github.com/convoo/convoo-backend/internal/token"
)

const minPasswordLen = 6

// VerificationUsecase drives the pending-signup lifecycle: signup creates a
// pending record and mails a tokenized link, verify promotes the record to a
// real account, resend rotates the token in place.
type VerificationUsecase struct {
	pending     repository.PendingUserRepository
	users       repository.UserRepository
	sender      email.Sender
	jwtKey      []byte
	tokenTTL    time.Duration
	frontendURL string
}

func NewVerificationUsecase(
	pending repository.PendingUserRepository,
	users repository.UserRepository,
	sender email.Sender,
	jwtKey []byte,
	frontendURL string,
) *VerificationUsecase {
	return &VerificationUsecase{
		pending:     pending,
		users:       users,
		sender:      sender,
		jwtKey:      jwtKey,
		tokenTTL:    token.TTL,
		frontendURL: frontendURL,
	}
}

type SignupInput struct {
	FullName string
	Email    string
	Password string
}

// Signup creates a pending registration and emails the verification link.
// An existing pending record for the same email is silently replaced, which
// invalidates its token — users who forgot to verify can just sign up again.
// The pending record is persisted before the email goes out; if delivery
// fails, the record is deleted again so no orphaned pending state survives.
func (u *VerificationUsecase) Signup(ctx context.Context, in SignupInput) (string, error) {
	if in.FullName == "" || in.Email == "" || in.Password == "" {
		return "", fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	}
	if len(in.Password) < minPasswordLen {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	_, err := u.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return "", domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("check verified users: %w", err)
	}

	// Supersede any earlier pending signup for this email.
	if err := u.pending.DeleteByEmail(ctx, in.Email); err != nil {
		return "", fmt.Errorf("replace pending signup: %w", err)
	}

	passwordHash, err := security.HashPassword(in.Password)
	if err != nil {
		return "", err
	}

	verificationToken, err := token.New()
	if err != nil {
		return "", err
	}

	pending := &domain.PendingUser{
		Email:             in.Email,
		FullName:          in.FullName,
		PasswordHash:      passwordHash,
		VerificationToken: verificationToken,
		TokenExpiry:       time.Now().Add(u.tokenTTL),
	}
	if err := u.pending.Insert(ctx, pending); err != nil {
		return "", fmt.Errorf("store pending signup: %w", err)
	}

	if err := u.sendVerification(ctx, in.Email, in.FullName, verificationToken, "signup"); err != nil {
		// Compensating delete: a pending record whose email never went out
		// would strand the user with no link and no way back in.
		if delErr := u.pending.DeleteByEmail(ctx, in.Email); delErr != nil {
			return "", fmt.Errorf("%w: rollback also failed: %v", domain.ErrDeliveryFailed, delErr)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	return in.Email, nil
}

// Verify consumes a verification token: it promotes the matching unexpired
// pending record to a verified user, removes the pending record, and returns
// the new user with a signed session token.
//
// Promotion is not transactional across the two collections. The user insert
// runs first and the pending delete second; a crash in between leaves a
// pending row for an already-verified email, which is harmless — every entry
// path checks the verified store first, and the row is reaped at expiry. A
// concurrent duplicate Verify loses the unique-email race on insert and is
// answered with the already-created account (idempotent success).
func (u *VerificationUsecase) Verify(ctx context.Context, rawToken string) (*domain.User, string, error) {
	if rawToken == "" {
		return nil, "", fmt.Errorf("%w: verification token is required", domain.ErrValidation)
	}

	now := time.Now()
	pending, err := u.pending.FindByToken(ctx, rawToken, now)
	if err != nil {
		if errors.Is(err, domain.ErrPendingNotFound) {
			metrics.VerificationsTotal.WithLabelValues("invalid_token").Inc()
			return nil, "", domain.ErrTokenInvalid
		}
		return nil, "", fmt.Errorf("look up token: %w", err)
	}
	// The store filters by expiry already; re-check here so a stale read can
	// never resurrect a token past its window.
	if !pending.TokenExpiry.After(now) {
		metrics.VerificationsTotal.WithLabelValues("invalid_token").Inc()
		return nil, "", domain.ErrTokenInvalid
	}

	user := &domain.User{
		Email:        pending.Email,
		FullName:     pending.FullName,
		PasswordHash: pending.PasswordHash,
		ProfilePic:   "",
	}
	if err := u.users.Insert(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return u.alreadyVerified(ctx, pending)
		}
		return nil, "", fmt.Errorf("create verified user: %w", err)
	}

	// Best effort: if this delete fails the pending row lingers until the
	// TTL reaper removes it, and the email is already verified either way.
	_ = u.pending.DeleteByID(ctx, pending.ID)

	signed, err := signSessionToken(u.jwtKey, user)
	if err != nil {
		return nil, "", err
	}

	metrics.VerificationsTotal.WithLabelValues("verified").Inc()
	return user, signed, nil
}

// alreadyVerified answers a duplicate Verify whose insert lost the
// unique-email race: the account exists, so report success for it.
func (u *VerificationUsecase) alreadyVerified(ctx context.Context, pending *domain.PendingUser) (*domain.User, string, error) {
	user, err := u.users.FindByEmail(ctx, pending.Email)
	if err != nil {
		return nil, "", fmt.Errorf("load verified user: %w", err)
	}

	_ = u.pending.DeleteByID(ctx, pending.ID)

	signed, err := signSessionToken(u.jwtKey, user)
	if err != nil {
		return nil, "", err
	}

	metrics.VerificationsTotal.WithLabelValues("already_verified").Inc()
	return user, signed, nil
}

// Resend rotates the verification token and expiry on an existing pending
// record and mails the fresh link. Unlike Signup, a delivery failure keeps
// the record: the rotation is already persisted and the user can retry.
func (u *VerificationUsecase) Resend(ctx context.Context, emailAddr string) error {
	if emailAddr == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	_, err := u.users.FindByEmail(ctx, emailAddr)
	if err == nil {
		return domain.ErrAlreadyVerified
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("check verified users: %w", err)
	}

	pending, err := u.pending.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	verificationToken, err := token.New()
	if err != nil {
		return err
	}

	expiry := time.Now().Add(u.tokenTTL)
	if err := u.pending.UpdateToken(ctx, emailAddr, verificationToken, expiry); err != nil {
		return fmt.Errorf("rotate token: %w", err)
	}

	if err := u.sendVerification(ctx, emailAddr, pending.FullName, verificationToken, "resend"); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	return nil
}

func (u *VerificationUsecase) sendVerification(ctx context.Context, to, fullName, verificationToken, kind string) error {
	link := u.frontendURL + "/verify-email?token=" + verificationToken
	subject, body := email.VerificationEmail(fullName, link)

	if err := u.sender.Send(ctx, to, subject, body); err != nil {
		metrics.VerificationEmailsTotal.WithLabelValues(kind, "failed").Inc()
		return err
	}
	metrics.VerificationEmailsTotal.WithLabelValues(kind, "sent").Inc()
	return nil
}
