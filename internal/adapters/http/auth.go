package httpadapter

import (
	"context"
	"net/http"
	"strings"

	"github.com/syllabussync/syllabus-sync/internal/core/domain"
)

// devOwnerID is the identity used when bearer auth is disabled.
const devOwnerID = "local-dev"

type claimsContextKey struct{}

func ownerFromContext(ctx context.Context) string {
	claims, ok := ctx.Value(claimsContextKey{}).(domain.UserClaims)
	if !ok {
		return devOwnerID
	}
	return claims.UserID
}

// authMiddleware verifies the bearer token and attaches the caller's claims.
// A nil verifier disables auth entirely (dev mode).
func (rt *Router) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rt.verifier == nil || !requiresAuth(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r.Header.Get("Authorization"))
		claims, err := rt.verifier.Verify(token)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requiresAuth(path string) bool {
	switch path {
	case "/healthz", "/metrics":
		return false
	default:
		return true
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
