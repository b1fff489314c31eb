package auth

import (
	"time"

	"skillbridge/internal/common"
)

// Account is the auth-service identity record, separate from the profile the
// rest of the application reads.
type Account struct {
	ID           common.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RefreshToken struct {
	ID        common.UUID
	AccountID common.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type PasswordReset struct {
	AccountID common.UUID
	Token     string
	ExpiresAt time.Time
}
