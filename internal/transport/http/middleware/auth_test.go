package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/auth"
)

type resolverFunc func(ctx context.Context, claims auth.Claims) (auth.Principal, error)

func (f resolverFunc) ResolvePrincipal(ctx context.Context, claims auth.Claims) (auth.Principal, error) {
	return f(ctx, claims)
}

func signedRequest(t *testing.T, secret string, claims auth.Claims) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken(secret, claims, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	var seen auth.Principal
	handler := Auth(secret, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		seen = user
	}))

	handler.ServeHTTP(httptest.NewRecorder(), signedRequest(t, secret, auth.Claims{UserID: "u1", Role: auth.RoleEmployee, EmployeeID: "e1"}))
	if seen.UserID != "u1" || seen.Role != auth.RoleEmployee || seen.EmployeeID != "e1" {
		t.Fatalf("unexpected user: %+v", seen)
	}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := Auth("secret", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("did not expect user in context")
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestAuthMiddlewareRejectsForeignSignature(t *testing.T) {
	handler := Auth("secret", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("token signed with another secret must not authenticate")
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), signedRequest(t, "other", auth.Claims{UserID: "u1", Role: auth.RoleAdmin}))
}

func TestAuthMiddlewareUsesResolvedPrincipal(t *testing.T) {
	resolver := resolverFunc(func(_ context.Context, claims auth.Claims) (auth.Principal, error) {
		return auth.Principal{UserID: claims.UserID, Role: auth.RoleEmployee, EmployeeID: "e-current"}, nil
	})
	var seen auth.Principal
	handler := Auth("secret", resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUser(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), signedRequest(t, "secret", auth.Claims{UserID: "u1", Role: auth.RoleAdmin}))
	if seen.Role != auth.RoleEmployee || seen.EmployeeID != "e-current" {
		t.Fatalf("expected resolved principal, got %+v", seen)
	}
}

func TestAuthMiddlewareDeactivatedAccountIsAnonymous(t *testing.T) {
	resolver := resolverFunc(func(context.Context, auth.Claims) (auth.Principal, error) {
		return auth.Principal{}, apperr.Unauthenticated("Account is deactivated")
	})
	handler := Auth("secret", resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("deactivated account must not authenticate")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(t, "secret", auth.Claims{UserID: "u1", Role: auth.RoleAdmin}))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected request to continue, got %d", rec.Code)
	}
}

func TestAuthMiddlewareResolverFailure(t *testing.T) {
	resolver := resolverFunc(func(context.Context, auth.Claims) (auth.Principal, error) {
		return auth.Principal{}, errors.New("db down")
	})
	handler := Auth("secret", resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signedRequest(t, "secret", auth.Claims{UserID: "u1", Role: auth.RoleAdmin}))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
