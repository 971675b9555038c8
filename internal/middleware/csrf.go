// Package middleware holds the HTTP middleware that sits between chi's
// stock stack and the storefront handlers.
package middleware

import (
	"net/http"
	"time"

	"github.com/oakmart/storefront-web/internal/session"
)

const csrfCookieName = "csrf_token"

// CSRF issues a CSRF cookie tied to the session and verifies that modifying
// requests carry the token in the X-CSRF-Token header (double submit
// cookie). Safe methods pass through.
func CSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromContext(r.Context())
			token := sess.CSRFToken

			needSet := true
			if c, err := r.Cookie(csrfCookieName); err == nil && c.Value == token {
				needSet = false
			}
			if needSet && token != "" {
				http.SetCookie(w, &http.Cookie{
					Name:     csrfCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
					Expires:  time.Now().Add(24 * time.Hour),
				})
			}

			if !isSafeMethod(r.Method) {
				hdr := r.Header.Get("X-CSRF-Token")
				if token == "" || hdr != token {
					WriteError(w, http.StatusForbidden, "invalid CSRF token")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
