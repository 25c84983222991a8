package httpapi

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"time"
)

func loggingMiddleware(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now().UTC()
		next.ServeHTTP(w, r)
		logger.Printf("%s %s from=%s dur=%s", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	})
}

// admin guards a handler with the X-API-Key header check.
func (s *Server) admin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-API-Key")
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.adminAPIKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "Unauthorized: missing or invalid API key")
			return
		}
		next(w, r)
	}
}

// userHandler receives the authenticated user's id resolved from the token.
type userHandler func(w http.ResponseWriter, r *http.Request, userID string)

// user guards a handler with Bearer-token authentication.
func (s *Server) user(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing auth token")
			return
		}
		userID, err := s.auth.VerifyToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next(w, r, userID)
	}
}
