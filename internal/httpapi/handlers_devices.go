package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/wakko59/Geata-api/internal/geata/store"
	"github.com/wakko59/Geata-api/internal/geata/types"
)

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.devices.List(r.Context())
	if err != nil {
		s.logger.Printf("list devices error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]types.DeviceInfo, 0, len(devices))
	for _, d := range devices {
		out = append(out, types.DeviceInfo{ID: d.ID, Name: d.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var req types.CreateDeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required")
		return
	}

	rec := store.DeviceRecord{ID: req.ID, Name: req.Name, CreatedAt: time.Now().UTC()}
	if err := s.devices.Create(r.Context(), rec); err != nil {
		if errors.Is(err, store.ErrExists) {
			writeError(w, http.StatusConflict, "device already exists")
			return
		}
		s.logger.Printf("create device error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, types.DeviceInfo{ID: rec.ID, Name: rec.Name})
}

func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	deleted, err := s.devices.Delete(r.Context(), id)
	if err != nil {
		s.logger.Printf("delete device error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "device not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func (s *Server) handleSetDeviceSecret(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req types.SetSecretRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Secret == "" {
		writeError(w, http.StatusBadRequest, "secret is required")
		return
	}

	dev, err := s.devices.Get(r.Context(), id)
	if err != nil {
		s.logger.Printf("set secret error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if dev == nil {
		writeError(w, http.StatusNotFound, "device not found")
		return
	}

	if err := s.devices.SetSecret(r.Context(), id, req.Secret); err != nil {
		s.logger.Printf("set secret error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("id")
	ctx := r.Context()

	dev, err := s.devices.Get(ctx, deviceID)
	if err != nil {
		s.logger.Printf("list members error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if dev == nil {
		writeError(w, http.StatusNotFound, "device not found")
		return
	}

	members, err := s.memberships.ListByDevice(ctx, deviceID)
	if err != nil {
		s.logger.Printf("list members error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]types.MemberInfo, 0, len(members))
	for _, m := range members {
		info := types.MemberInfo{UserID: m.UserID, Role: m.Role, ScheduleID: m.ScheduleID}
		if u, err := s.users.Get(ctx, m.UserID); err == nil && u != nil {
			info.Name = u.Name
			info.Email = u.Email
			info.Phone = u.Phone
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleAttachUser links a user to a device.  The user is resolved by id,
// then by email/phone; an unknown email/phone gets a password-less user
// provisioned on the spot so admins can grant access ahead of signup.
func (s *Server) handleAttachUser(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("id")
	ctx := r.Context()

	var req types.AttachUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// All input validation happens before any lookup or provisioning: a
	// rejected request must leave no user record behind.
	role := req.Role
	if role == "" {
		role = store.RoleOperator
	}
	if role != store.RoleOperator && role != store.RoleAdmin {
		writeError(w, http.StatusBadRequest, "role must be operator or admin")
		return
	}
	if req.UserID == "" && req.Email == "" && req.Phone == "" {
		writeError(w, http.StatusBadRequest, "userId or email/phone required")
		return
	}

	dev, err := s.devices.Get(ctx, deviceID)
	if err != nil {
		s.logger.Printf("attach user error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if dev == nil {
		writeError(w, http.StatusNotFound, "device not found")
		return
	}

	var user *store.UserRecord
	if req.UserID != "" {
		user, err = s.users.Get(ctx, req.UserID)
		if err == nil && user == nil {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
	} else {
		user, err = s.auth.FindByEmailOrPhone(ctx, req.Email, req.Phone)
		if err == nil && user == nil {
			user, err = s.auth.Provision(ctx, req.Name, req.Email, req.Phone)
		}
	}
	if err != nil {
		s.logger.Printf("attach user error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := s.memberships.Upsert(ctx, store.MembershipRecord{
		DeviceID: deviceID,
		UserID:   user.ID,
		Role:     role,
	}); err != nil {
		s.logger.Printf("attach user error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, types.MemberInfo{
		UserID: user.ID,
		Role:   role,
		Name:   user.Name,
		Email:  user.Email,
		Phone:  user.Phone,
	})
}

func (s *Server) handleDetachUser(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("id")
	userID := r.PathValue("userId")

	deleted, err := s.memberships.Delete(r.Context(), deviceID, userID)
	if err != nil {
		s.logger.Printf("detach user error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "membership not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (s *Server) handleGetScheduleAssignment(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("id")
	userID := r.PathValue("userId")

	m, err := s.memberships.Get(r.Context(), deviceID, userID)
	if err != nil {
		s.logger.Printf("get schedule assignment error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if m == nil {
		writeError(w, http.StatusNotFound, "membership not found")
		return
	}
	writeJSON(w, http.StatusOK, types.ScheduleAssignment{ScheduleID: m.ScheduleID})
}

// handleSetScheduleAssignment sets or clears the membership's schedule.  A
// missing membership is created with the operator role, so granting scheduled
// access is a single call.
func (s *Server) handleSetScheduleAssignment(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("id")
	userID := r.PathValue("userId")
	ctx := r.Context()

	var req types.ScheduleAssignment
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	dev, err := s.devices.Get(ctx, deviceID)
	if err == nil && dev == nil {
		writeError(w, http.StatusNotFound, "device not found")
		return
	}
	var user *store.UserRecord
	if err == nil {
		user, err = s.users.Get(ctx, userID)
		if err == nil && user == nil {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
	}
	if err == nil && req.ScheduleID != nil {
		sched, serr := s.schedules.Get(ctx, *req.ScheduleID)
		err = serr
		if err == nil && sched == nil {
			writeError(w, http.StatusNotFound, "schedule not found")
			return
		}
	}
	if err == nil {
		err = s.memberships.SetScheduleAssignment(ctx, deviceID, userID, req.ScheduleID)
	}
	if err != nil {
		s.logger.Printf("set schedule assignment error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, types.ScheduleAssignment{ScheduleID: req.ScheduleID})
}

func (s *Server) handleMyDevices(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()

	memberships, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Printf("my devices error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]types.UserDeviceInfo, 0, len(memberships))
	for _, m := range memberships {
		dev, err := s.devices.Get(ctx, m.DeviceID)
		if err != nil || dev == nil {
			continue
		}
		out = append(out, types.UserDeviceInfo{ID: dev.ID, Name: dev.Name, Role: m.Role})
	}
	writeJSON(w, http.StatusOK, out)
}
