package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/avasquez/platefront/internal/auth"
	"github.com/avasquez/platefront/internal/session"
	"github.com/avasquez/platefront/internal/store"
)

// SessionCookieName is the cookie carrying the session credential.
const SessionCookieName = "platefront_session"

// RequireAuth verifies the session cookie, resolves the account, and
// populates AuthContext. The credential is stateless; the store lookup is
// only needed to confirm the account still exists and to load its flags.
func RequireAuth(issuer *session.Issuer, userStore *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			userID, err := issuer.Verify(cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := userStore.GetByID(userID)
			if err != nil || user == nil {
				unauthorized(w)
				return
			}

			ac := auth.AuthContext{
				UserID:   user.ID,
				Admin:    user.Admin,
				Verified: user.Verified,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin checks that the authenticated user has the admin flag.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
