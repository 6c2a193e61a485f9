package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"hrdesk/internal/domain/apperr"
	"hrdesk/internal/domain/auth"
	"hrdesk/internal/transport/http/api"
)

// PrincipalResolver turns verified token claims into the current principal.
// *auth.Service implements it by reloading the account.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, claims auth.Claims) (auth.Principal, error)
}

// Auth verifies a bearer token when one is present. Requests without a valid
// token continue anonymously; handlers decide whether that is acceptable.
func Auth(secret string, resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			principal := claims.Principal()
			if resolver != nil {
				principal, err = resolver.ResolvePrincipal(r.Context(), *claims)
				if errors.Is(err, apperr.ErrUnauthenticated) {
					next.ServeHTTP(w, r)
					return
				}
				if err != nil {
					slog.Error("resolve principal failed", "err", err)
					api.Fail(w, http.StatusInternalServerError, "auth_failed", "failed to verify session", GetRequestID(r.Context()))
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), principal)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
