package security

import (
	"testing"
	"time"

	"skillbridge/internal/common"
	"skillbridge/internal/domain/profile"
)

func TestJWTRoundTrip(t *testing.T) {
	provider := NewJWTProvider("secret")
	uid := common.NewUUID()

	token, expiresAt, err := provider.Generate(uid, profile.RoleRecruiter, time.Minute)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatal("expected expiry in the future")
	}

	claims, err := provider.Parse(token)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if claims.UserID != uid.String() {
		t.Fatalf("expected user id %s, got %s", uid, claims.UserID)
	}
	if claims.Role != string(profile.RoleRecruiter) {
		t.Fatalf("expected recruiter role, got %q", claims.Role)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, _, err := NewJWTProvider("secret").Generate(common.NewUUID(), profile.RoleStudent, time.Minute)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := NewJWTProvider("other-secret").Parse(token); err == nil {
		t.Fatal("expected parse to fail with the wrong secret")
	}
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	provider := NewJWTProvider("secret")
	token, _, err := provider.Generate(common.NewUUID(), profile.RoleStudent, -time.Minute)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, err := provider.Parse(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
