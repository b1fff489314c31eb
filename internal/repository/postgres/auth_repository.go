package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skillbridge/internal/common"
	"skillbridge/internal/domain/auth"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account auth.Account) (*auth.Account, error) {
	account.ID = common.NewUUID()
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO accounts (id, email, password_hash, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID, account.Email, account.PasswordHash, account.DisplayName, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create account", err)
	}
	return &account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id common.UUID) (*auth.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, email, password_hash, display_name, created_at, updated_at FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, email, password_hash, display_name, created_at, updated_at FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

func scanAccount(row *sql.Row) (*auth.Account, error) {
	var account auth.Account
	if err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.DisplayName, &account.CreatedAt, &account.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "account not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load account", err)
	}
	return &account, nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, id common.UUID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE accounts SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, time.Now().UTC(), id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to update password", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "account not found", sql.ErrNoRows)
	}
	return nil
}

type RefreshTokenRepository struct {
	db *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Store(ctx context.Context, token auth.RefreshToken) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO refresh_tokens (id, account_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		token.ID, token.AccountID, token.Token, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to store refresh token", err)
	}
	return nil
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, account_id, token, expires_at, created_at, revoked_at FROM refresh_tokens WHERE token = $1`, token)
	var stored auth.RefreshToken
	var revokedAt sql.NullTime
	if err := row.Scan(&stored.ID, &stored.AccountID, &stored.Token, &stored.ExpiresAt, &stored.CreatedAt, &revokedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "refresh token not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load refresh token", err)
	}
	if revokedAt.Valid {
		stored.RevokedAt = &revokedAt.Time
	}
	return &stored, nil
}

func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string, revokedAtUnix int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked_at = to_timestamp($1) WHERE token = $2 AND revoked_at IS NULL`, revokedAtUnix, token)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to revoke refresh token", err)
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAll(ctx context.Context, accountID common.UUID, revokedAtUnix int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE refresh_tokens SET revoked_at = to_timestamp($1) WHERE account_id = $2 AND revoked_at IS NULL`, revokedAtUnix, accountID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to revoke refresh tokens", err)
	}
	return nil
}

type PasswordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Upsert(ctx context.Context, reset auth.PasswordReset) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO password_resets (account_id, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at`,
		reset.AccountID, reset.Token, reset.ExpiresAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to store password reset", err)
	}
	return nil
}

func (r *PasswordResetRepository) GetByToken(ctx context.Context, token string) (*auth.PasswordReset, error) {
	row := r.db.QueryRowContext(ctx, `SELECT account_id, token, expires_at FROM password_resets WHERE token = $1`, token)
	var reset auth.PasswordReset
	if err := row.Scan(&reset.AccountID, &reset.Token, &reset.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "password reset not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load password reset", err)
	}
	return &reset, nil
}

func (r *PasswordResetRepository) Delete(ctx context.Context, accountID common.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_resets WHERE account_id = $1`, accountID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete password reset", err)
	}
	return nil
}
