package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/wakko59/Geata-api/internal/geata/service"
	"github.com/wakko59/Geata-api/internal/geata/types"
)

func (s *Server) handleRequestCommand(w http.ResponseWriter, r *http.Request, userID string) {
	deviceID := r.PathValue("id")

	var req types.CommandRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cmd, dec, err := s.commands.Request(r.Context(), deviceID, userID, req.Type, req.DurationMs)
	switch {
	case errors.Is(err, service.ErrInvalidCommandType):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrDeviceNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.logger.Printf("request command error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if cmd == nil {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"error":  "access denied",
			"reason": dec.Reason,
		})
		return
	}
	writeJSON(w, http.StatusCreated, commandInfo(*cmd))
}

func (s *Server) handleTestPulse(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("id")

	var req types.CommandRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cmd, err := s.commands.TestPulse(r.Context(), deviceID, req.Type, req.DurationMs)
	switch {
	case errors.Is(err, service.ErrInvalidCommandType):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrDeviceNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.logger.Printf("test pulse error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, commandInfo(*cmd))
}

func (s *Server) handleRecentCommands(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	cmds, err := s.commands.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Printf("recent commands error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]types.CommandInfo, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, commandInfo(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	var req types.PollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := s.poll.Poll(r.Context(), req)
	switch {
	case errors.Is(err, service.ErrInvalidDeviceID):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, service.ErrDeviceNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, service.ErrDeviceUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		s.logger.Printf("poll error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
