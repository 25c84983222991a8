package httpapi

import (
	"net/http"
	"strconv"

	"github.com/wakko59/Geata-api/internal/geata/schedule"
	"github.com/wakko59/Geata-api/internal/geata/types"
)

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.schedules.List(r.Context())
	if err != nil {
		s.logger.Printf("list schedules error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if schedules == nil {
		schedules = []schedule.Schedule{}
	}
	writeJSON(w, http.StatusOK, schedules)
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req types.ScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := validateScheduleRequest(req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id, err := s.schedules.Create(r.Context(), req.Name, req.Description, req.Slots)
	if err != nil {
		s.logger.Printf("create schedule error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, types.CreateScheduleResponse{ID: id})
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid schedule id")
		return
	}

	var req types.ScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := validateScheduleRequest(req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ok, err := s.schedules.Update(r.Context(), id, req.Name, req.Description, req.Slots)
	if err != nil {
		s.logger.Printf("update schedule error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "schedule not found")
		return
	}

	sched, err := s.schedules.Get(r.Context(), id)
	if err != nil || sched == nil {
		writeJSON(w, http.StatusOK, types.CreateScheduleResponse{ID: id})
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid schedule id")
		return
	}

	ok, err := s.schedules.Delete(r.Context(), id)
	if err != nil {
		s.logger.Printf("delete schedule error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "schedule not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}

// validateScheduleRequest returns a client-facing message, or "" when valid.
// Slot times are "HH:MM" and day numbers follow time.Weekday (0 = Sunday).
func validateScheduleRequest(req types.ScheduleRequest) string {
	if req.Name == "" {
		return "name is required"
	}
	for _, slot := range req.Slots {
		if !validHHMM(slot.Start) || !validHHMM(slot.End) {
			return "slot times must be HH:MM"
		}
		for _, d := range slot.DaysOfWeek {
			if d < 0 || d > 6 {
				return "daysOfWeek values must be 0-6"
			}
		}
	}
	return ""
}

func validHHMM(v string) bool {
	if len(v) != 5 || v[2] != ':' {
		return false
	}
	h, err := strconv.Atoi(v[:2])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(v[3:])
	return err == nil && m >= 0 && m <= 59
}
