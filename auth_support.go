package main

import (
	"context"
	"net/http"
	"os"
	"strings"
)

// cookie configuration (shared with auth.go)
var cookieName = getenv("COOKIE_NAME", "estudantes_auth")
var cookieSecure = os.Getenv("COOKIE_SECURE") == "true"

// let env control SameSite: "none" | "lax" | "strict"  (default: lax)
var cookieSameSite = func() http.SameSite {
	switch strings.ToLower(os.Getenv("COOKIE_SAMESITE")) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}()

// identity is the request-scoped authenticated user, resolved once by
// requireAuth and passed to handlers through the context.
type identity struct {
	UserID uint
	Name   string
	Email  string
	Admin  bool
}

type ctxKey int

const identityKey ctxKey = 0

func identityFromRequest(r *http.Request) (identity, bool) {
	id, ok := r.Context().Value(identityKey).(identity)
	return id, ok
}

func withIdentity(r *http.Request, id identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, id))
}

// requireAuth rejects requests without a valid session cookie and stores
// the resolved identity in the request context.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(cookieName)
		if err != nil || c.Value == "" {
			errorJSON(w, http.StatusUnauthorized, "authentication required")
			return
		}
		claims, err := parseToken(c.Value)
		if err != nil {
			errorJSON(w, http.StatusUnauthorized, "invalid session")
			return
		}
		next.ServeHTTP(w, withIdentity(r, identity{
			UserID: claims.UserID,
			Name:   claims.Name,
			Email:  claims.Email,
			Admin:  claims.Admin,
		}))
	})
}

// requireAdmin re-checks the admin flag against the database; a stale
// cookie must not keep admin access after a demotion.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identityFromRequest(r)
		if !ok {
			errorJSON(w, http.StatusUnauthorized, "authentication required")
			return
		}
		var u User
		if err := DB.First(&u, "id = ?", id.UserID).Error; err != nil || !u.IsAdmin {
			errorJSON(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
