package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// requireAdmin gates the admin routes behind an opaque bearer token. The
// credential itself is managed outside this service; this is only the
// "is this caller authorized" check.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			writeMessage(w, http.StatusUnauthorized, "Tidak terautentikasi")
			return
		}
		next.ServeHTTP(w, r)
	})
}
