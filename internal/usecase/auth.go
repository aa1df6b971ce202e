package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/convoo/convoo-backend/internal/domain"
	"github.com/convoo/convoo-backend/internal/repository"
	"github.com/convoo/convoo-backend/internal/security"
)

// AuthUsecase handles everything after verification: login, session lookup,
// profile updates.
type AuthUsecase struct {
	users  repository.UserRepository
	jwtKey []byte
}

func NewAuthUsecase(users repository.UserRepository, jwtKey []byte) *AuthUsecase {
	return &AuthUsecase{users: users, jwtKey: jwtKey}
}

// Login checks the credentials against the verified-user store and returns
// the user with a signed session token. Unknown email and wrong password are
// indistinguishable to the caller.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (*domain.User, string, error) {
	if emailAddr == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	signed, err := signSessionToken(u.jwtKey, user)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

// AuthenticatedUser loads the account behind a session's subject claim.
func (u *AuthUsecase) AuthenticatedUser(ctx context.Context, userID string) (*domain.User, error) {
	return u.users.FindByID(ctx, userID)
}

// UpdateProfilePic stores the new picture URL and returns the updated user.
func (u *AuthUsecase) UpdateProfilePic(ctx context.Context, userID, url string) (*domain.User, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: profile pic is required", domain.ErrValidation)
	}
	return u.users.UpdateProfilePic(ctx, userID, url)
}
