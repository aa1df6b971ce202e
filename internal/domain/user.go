package domain

import (
	"errors"
	"time"
)

var (
	ErrValidation         = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already exists")
	ErrAlreadyVerified    = errors.New("email is already verified")
	ErrTokenInvalid       = errors.New("verification token is invalid or expired")
	ErrPendingNotFound    = errors.New("no pending verification found for this email")
	ErrDeliveryFailed     = errors.New("failed to send verification email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthorized       = errors.New("unauthorized")
)

// User is a fully verified account. Email is globally unique; the store
// enforces uniqueness with an index.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	ProfilePic   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PendingUser is an unverified signup waiting for the email link to be
// clicked. At most one exists per email. The store removes rows past
// TokenExpiry on its own; readers must still filter by expiry themselves.
type PendingUser struct {
	ID                string
	Email             string
	FullName          string
	PasswordHash      string
	VerificationToken string
	TokenExpiry       time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PublicUser is the subset of User returned to clients.
type PublicUser struct {
	ID         string `json:"_id"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	ProfilePic string `json:"profilePic"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
	}
}
