// Package api implements the Zametki REST API using chi.
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// requireToken rejects requests that do not carry token as a Bearer
// credential. When allowQuery is set, an access_token query parameter is
// accepted as well, since browser EventSource clients cannot send headers.
func requireToken(token string, allowQuery bool) func(http.Handler) http.Handler {
	want := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok && allowQuery {
				given = r.URL.Query().Get("access_token")
			}
			if given == "" || subtle.ConstantTimeCompare([]byte(given), want) != 1 {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func passThrough(next http.Handler) http.Handler { return next }

// AuthMiddleware enforces Bearer token auth when enabled and is a no-op
// otherwise.
func AuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	if !enabled {
		return passThrough
	}
	return requireToken(token, false)
}
