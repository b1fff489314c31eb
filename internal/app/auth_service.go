package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"skillbridge/internal/common"
	"skillbridge/internal/domain/auth"
	"skillbridge/internal/domain/profile"
	"skillbridge/internal/security"
)

type AuthService struct {
	accounts      auth.AccountRepository
	refreshTokens auth.RefreshTokenRepository
	resets        auth.PasswordResetRepository
	profiles      *ProfileService
	jwtProvider   *security.JWTProvider
	logger        *slog.Logger
	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTTL      time.Duration
}

func NewAuthService(accounts auth.AccountRepository, refreshTokens auth.RefreshTokenRepository, resets auth.PasswordResetRepository, profiles *ProfileService, jwtProvider *security.JWTProvider, logger *slog.Logger, accessTTL, refreshTTL, resetTTL time.Duration) *AuthService {
	return &AuthService{
		accounts:      accounts,
		refreshTokens: refreshTokens,
		resets:        resets,
		profiles:      profiles,
		jwtProvider:   jwtProvider,
		logger:        logger,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		resetTTL:      resetTTL,
	}
}

type Session struct {
	Account *auth.Account
	Profile *profile.Profile
	Tokens  *auth.TokenPair
}

func (s *AuthService) SignUp(ctx context.Context, email, password, displayName string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, common.NewValidationError("invalid email", map[string]string{"email": "a valid email is required"})
	}
	if len(password) < 8 {
		return nil, common.NewValidationError("invalid password", map[string]string{"password": "password must be at least 8 characters"})
	}
	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, common.NewError(common.CodeConflict, "email already registered", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	account, err := s.accounts.Create(ctx, auth.Account{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(displayName),
	})
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, account)
}

func (s *AuthService) LogIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
		}
		// Fail closed: an unreachable auth store never authenticates anyone.
		return nil, common.NewError(common.CodeUnauthorized, "auth unavailable", err)
	}
	ok, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil || !ok {
		return nil, common.NewError(common.CodeUnauthorized, "invalid credentials", err)
	}
	return s.openSession(ctx, account)
}

// openSession resolves the profile (creating the default student profile on
// first sign-in) and issues a token pair with the resolved role baked in.
// Profile resolution failing degrades to the student role per the documented
// degraded mode; it does not block sign-in.
func (s *AuthService) openSession(ctx context.Context, account *auth.Account) (*Session, error) {
	resolved, err := s.profiles.Resolve(ctx, account.ID, account.DisplayName, account.Email)
	role := profile.RoleStudent
	if err != nil {
		s.logger.Warn("profile resolution degraded to student role",
			slog.String("uid", account.ID.String()), slog.String("error", err.Error()))
	} else {
		role = resolved.Role
	}
	tokens, err := s.issueTokens(ctx, account.ID, role)
	if err != nil {
		return nil, err
	}
	return &Session{Account: account, Profile: resolved, Tokens: tokens}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, accountID common.UUID, role profile.Role) (*auth.TokenPair, error) {
	access, expiresAt, err := s.jwtProvider.Generate(accountID, role, s.accessTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to sign access token", err)
	}
	refresh, err := newOpaqueToken()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate refresh token", err)
	}
	now := time.Now().UTC()
	if err := s.refreshTokens.Store(ctx, auth.RefreshToken{
		ID:        common.NewUUID(),
		AccountID: accountID,
		Token:     refresh,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	return &auth.TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	stored, err := s.refreshTokens.GetByToken(ctx, refreshToken)
	if err != nil {
		return nil, common.NewError(common.CodeUnauthorized, "invalid refresh token", err)
	}
	now := time.Now().UTC()
	if stored.RevokedAt != nil || now.After(stored.ExpiresAt) {
		return nil, common.NewError(common.CodeUnauthorized, "refresh token expired", nil)
	}
	if err := s.refreshTokens.Revoke(ctx, refreshToken, now.Unix()); err != nil {
		return nil, err
	}
	role := s.profiles.RoleOf(ctx, stored.AccountID)
	return s.issueTokens(ctx, stored.AccountID, role)
}

func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	return s.refreshTokens.Revoke(ctx, refreshToken, time.Now().UTC().Unix())
}

// RequestPasswordReset issues a reset token for the account. Delivery is out
// of scope; a missing account still reports success so the endpoint does not
// leak which emails are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	account, err := s.accounts.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return "", nil
		}
		return "", err
	}
	token, err := newOpaqueToken()
	if err != nil {
		return "", common.NewError(common.CodeInternal, "failed to generate reset token", err)
	}
	if err := s.resets.Upsert(ctx, auth.PasswordReset{
		AccountID: account.ID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.resetTTL),
	}); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a reset token: the new password replaces the old
// one and every refresh token for the account is revoked, so stale sessions
// cannot outlive a reset.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return common.NewValidationError("invalid password", map[string]string{"password": "password must be at least 8 characters"})
	}
	reset, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		return common.NewError(common.CodeUnauthorized, "invalid reset token", err)
	}
	if time.Now().UTC().After(reset.ExpiresAt) {
		_ = s.resets.Delete(ctx, reset.AccountID)
		return common.NewError(common.CodeUnauthorized, "reset token expired", nil)
	}
	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	if err := s.accounts.UpdatePassword(ctx, reset.AccountID, hash); err != nil {
		return err
	}
	if err := s.resets.Delete(ctx, reset.AccountID); err != nil {
		return err
	}
	return s.refreshTokens.RevokeAll(ctx, reset.AccountID, time.Now().UTC().Unix())
}

// CurrentSession is the server-side "current user" lookup backing the
// /auth/session endpoint.
func (s *AuthService) CurrentSession(ctx context.Context, uid common.UUID) (*Session, error) {
	account, err := s.accounts.GetByID(ctx, uid)
	if err != nil {
		return nil, common.NewError(common.CodeUnauthorized, "session account not found", err)
	}
	resolved, err := s.profiles.Resolve(ctx, uid, account.DisplayName, account.Email)
	if err != nil {
		return nil, err
	}
	return &Session{Account: account, Profile: resolved}, nil
}

func newOpaqueToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
