package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/wakko59/Geata-api/internal/geata/store"
	"github.com/wakko59/Geata-api/internal/geata/types"
)

func (s *Server) handleQueryEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.EventFilter{
		DeviceID: q.Get("deviceId"),
		UserID:   q.Get("userId"),
	}

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be RFC 3339")
			return
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to must be RFC 3339")
			return
		}
		filter.To = &t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = n
	}

	events, err := s.events.Query(r.Context(), filter)
	if err != nil {
		s.logger.Printf("query events error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]types.EventInfo, 0, len(events))
	for _, e := range events {
		out = append(out, eventInfo(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePurgeEvents(w http.ResponseWriter, r *http.Request) {
	var req types.PurgeEventsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.OlderThanDays < 1 {
		writeError(w, http.StatusBadRequest, "olderThanDays must be at least 1")
		return
	}

	deleted, err := s.events.PurgeOlderThan(r.Context(), req.OlderThanDays)
	if err != nil {
		s.logger.Printf("purge events error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, types.PurgeEventsResponse{Deleted: deleted})
}
