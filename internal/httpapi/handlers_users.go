package httpapi

import (
	"net/http"

	"github.com/wakko59/Geata-api/internal/geata/types"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.logger.Printf("list users error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]types.UserInfo, 0, len(users))
	for _, u := range users {
		out = append(out, userInfo(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	user, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.logger.Printf("get user error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, userInfo(*user))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	deleted, err := s.users.Delete(r.Context(), id)
	if err != nil {
		s.logger.Printf("delete user error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
