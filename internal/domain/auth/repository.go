package auth

import (
	"context"

	"skillbridge/internal/common"
)

type AccountRepository interface {
	Create(ctx context.Context, account Account) (*Account, error)
	GetByID(ctx context.Context, id common.UUID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	UpdatePassword(ctx context.Context, id common.UUID, passwordHash string) error
}

type RefreshTokenRepository interface {
	Store(ctx context.Context, token RefreshToken) error
	GetByToken(ctx context.Context, token string) (*RefreshToken, error)
	Revoke(ctx context.Context, token string, revokedAtUnix int64) error
	RevokeAll(ctx context.Context, accountID common.UUID, revokedAtUnix int64) error
}

type PasswordResetRepository interface {
	Upsert(ctx context.Context, reset PasswordReset) error
	GetByToken(ctx context.Context, token string) (*PasswordReset, error)
	Delete(ctx context.Context, accountID common.UUID) error
}
