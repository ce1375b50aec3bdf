package auth

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const claimsKey contextKey = "claims"

// Middleware rejects requests without a valid bearer token before the wrapped handler
// runs, so no decoding or storage work happens for unauthenticated callers.
func (g *Gate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := BearerToken(r)
			if err != nil {
				utils.WriteError(w, r, g.Logger, err)
				return
			}

			claims, err := g.Verify(r.Context(), raw)
			if err != nil {
				utils.WriteError(w, r, g.Logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optional stores the claims of a valid bearer token and otherwise lets the request
// through anonymously. A missing, malformed or expired token is never an error here.
func (g *Gate) Optional() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, err := BearerToken(r)
			if err == nil {
				var claims jwt.MapClaims
				if claims, err = g.Verify(r.Context(), raw); err == nil {
					next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
					return
				}
			}
			g.Logger.Debug("AUTH", fmt.Sprintf("Ignoring credentials on %s %s: %v", r.Method, r.URL.Path, err))
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole admits callers whose "role" claim, or "user_type" when role is absent,
// is one of roles. It must run after Middleware.
func (g *Gate) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				utils.WriteError(w, r, g.Logger, apperr.Unauthenticated("missing bearer token"))
				return
			}
			if !slices.Contains(roles, RoleOf(claims)) {
				utils.WriteError(w, r, g.Logger, apperr.Forbidden("insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RoleOf reads the caller's role from claims.
func RoleOf(claims jwt.MapClaims) string {
	for _, key := range []string{"role", "user_type"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return strings.ToLower(v)
		}
	}
	return ""
}

// ClaimsFrom returns the verified claims stored by Middleware.
func ClaimsFrom(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(jwt.MapClaims)
	return claims, ok
}

// WithClaims stores claims in ctx the way Middleware does.
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ActorID is the numeric subject of the authenticated caller, if any.
func ActorID(ctx context.Context) *int64 {
	claims, ok := ClaimsFrom(ctx)
	if !ok {
		return nil
	}
	id, ok := SubjectID(claims)
	if !ok {
		return nil
	}
	return &id
}
