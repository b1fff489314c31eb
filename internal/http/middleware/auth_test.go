package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillbridge/internal/common"
	"skillbridge/internal/domain/profile"
	"skillbridge/internal/security"
)

func issueToken(t *testing.T, provider *security.JWTProvider, role profile.Role) (common.UUID, string) {
	t.Helper()
	uid := common.NewUUID()
	token, _, err := provider.Generate(uid, role, time.Minute)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return uid, token
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	provider := security.NewJWTProvider("secret")
	middleware := NewAuthMiddleware(provider)
	uid, token := issueToken(t, provider, profile.RoleRecruiter)

	var gotUID common.UUID
	var gotRole profile.Role
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID, _ = UserIDFromContext(r.Context())
		gotRole, _ = RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUID != uid {
		t.Fatalf("expected uid %s, got %s", uid, gotUID)
	}
	if gotRole != profile.RoleRecruiter {
		t.Fatalf("expected recruiter role, got %q", gotRole)
	}
}

func TestAuthenticateMissingToken(t *testing.T) {
	middleware := NewAuthMiddleware(security.NewJWTProvider("secret"))
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticateForgedToken(t *testing.T) {
	middleware := NewAuthMiddleware(security.NewJWTProvider("secret"))
	_, forged := issueToken(t, security.NewJWTProvider("other-secret"), profile.RoleStudent)

	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a forged token")
	}))
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticateQueryParamFallback(t *testing.T) {
	provider := security.NewJWTProvider("secret")
	middleware := NewAuthMiddleware(provider)
	uid, token := issueToken(t, provider, profile.RoleStudent)

	var gotUID common.UUID
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID, _ = UserIDFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/tasks/stream?access_token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUID != uid {
		t.Fatalf("expected uid %s, got %s", uid, gotUID)
	}
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	provider := security.NewJWTProvider("secret")
	middleware := NewAuthMiddleware(provider)
	_, token := issueToken(t, provider, profile.RoleStudent)

	handler := middleware.Authenticate(RequireRole(profile.RoleRecruiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for the wrong role")
	})))
	req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	provider := security.NewJWTProvider("secret")
	middleware := NewAuthMiddleware(provider)
	_, token := issueToken(t, provider, profile.RoleRecruiter)

	ran := false
	handler := middleware.Authenticate(RequireRole(profile.RoleRecruiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
	})))
	req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !ran || rec.Code != http.StatusOK {
		t.Fatalf("expected handler to run with 200, got %d", rec.Code)
	}
}
