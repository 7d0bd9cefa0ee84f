package paprikatest

import (
	"net/http"
	"strings"
)

// bearerAuth rejects requests whose Authorization header does not carry
// the token returned by current.
func bearerAuth(current func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != current() {
				writeJSON(w, http.StatusUnauthorized, errorBody("Unrecognized client"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
