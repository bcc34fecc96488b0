package httpx

import (
	"net/http"
	"strings"

	"github.com/kikundi/chama/pkg/jwtx"
	"github.com/kikundi/chama/pkg/slogx"
)

// Error codes written in the "code" field of 401 and 403 bodies. Clients
// key their refresh logic off the status, the codes are informational.
const (
	CodeNotAuthenticated = "not_authenticated"
	CodeTokenNotValid    = "token_not_valid"
	CodePermissionDenied = "permission_denied"
)

// Authn requires a valid bearer access token and stores the caller in the
// request context. Every failure is a 401 so clients know to refresh.
func Authn(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeUnauthorized(w, "Authentication credentials were not provided.", CodeNotAuthenticated)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Debug("access token rejected", "err", err)
				writeUnauthorized(w, "Given token not valid for any token type", CodeTokenNotValid)
				return
			}

			ctx = WithPrincipal(ctx, Principal{
				UserID:   claims.UserID(),
				Username: claims.Username,
				IsStaff:  claims.IsStaff,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff lets only staff members through. It must run after Authn.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		if !ok || !p.IsStaff {
			WriteDetail(w, http.StatusForbidden, "You do not have permission to perform this action.", CodePermissionDenied)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeUnauthorized(w http.ResponseWriter, detail, code string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	WriteDetail(w, http.StatusUnauthorized, detail, code)
}
