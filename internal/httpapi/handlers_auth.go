package httpapi

import (
	"errors"
	"net/http"

	"github.com/wakko59/Geata-api/internal/geata/service"
	"github.com/wakko59/Geata-api/internal/geata/types"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, user, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Phone, req.Password)
	switch {
	case errors.Is(err, service.ErrCredentialsRequired):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrUserExists):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.logger.Printf("register error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, types.AuthResponse{Token: token, User: userInfo(*user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, user, err := s.auth.Login(r.Context(), req.Email, req.Phone, req.Password)
	switch {
	case errors.Is(err, service.ErrCredentialsRequired):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		s.logger.Printf("login error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, types.AuthResponse{Token: token, User: userInfo(*user)})
}
