package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/wakko59/Geata-api/internal/geata/service"
	"github.com/wakko59/Geata-api/internal/geata/store"
)

type Dependencies struct {
	Logger      *log.Logger
	Addr        string
	AdminAPIKey string

	Auth     *service.AuthService
	Commands *service.CommandService
	Poll     *service.PollService
	Events   *service.EventService

	Devices     store.DeviceStore
	Users       store.UserStore
	Memberships store.MembershipStore
	Schedules   store.ScheduleStore
}

type Server struct {
	httpServer  *http.Server
	logger      *log.Logger
	mux         *http.ServeMux
	adminAPIKey string

	auth     *service.AuthService
	commands *service.CommandService
	poll     *service.PollService
	events   *service.EventService

	devices     store.DeviceStore
	users       store.UserStore
	memberships store.MembershipStore
	schedules   store.ScheduleStore
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:      d.Logger,
		mux:         mux,
		adminAPIKey: d.AdminAPIKey,
		auth:        d.Auth,
		commands:    d.Commands,
		poll:        d.Poll,
		events:      d.Events,
		devices:     d.Devices,
		users:       d.Users,
		memberships: d.Memberships,
		schedules:   d.Schedules,
	}

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	// App users
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /me/devices", s.user(s.handleMyDevices))
	mux.HandleFunc("POST /devices/{id}/commands", s.user(s.handleRequestCommand))

	// Field controllers
	mux.HandleFunc("POST /device/poll", s.handlePoll)

	// Admin
	mux.HandleFunc("GET /devices", s.admin(s.handleListDevices))
	mux.HandleFunc("POST /devices", s.admin(s.handleCreateDevice))
	mux.HandleFunc("DELETE /devices/{id}", s.admin(s.handleDeleteDevice))
	mux.HandleFunc("PUT /devices/{id}/secret", s.admin(s.handleSetDeviceSecret))
	mux.HandleFunc("POST /devices/{id}/test-pulse", s.admin(s.handleTestPulse))

	mux.HandleFunc("GET /devices/{id}/users", s.admin(s.handleListMembers))
	mux.HandleFunc("POST /devices/{id}/users", s.admin(s.handleAttachUser))
	mux.HandleFunc("DELETE /devices/{id}/users/{userId}", s.admin(s.handleDetachUser))
	mux.HandleFunc("GET /devices/{id}/users/{userId}/schedule-assignment", s.admin(s.handleGetScheduleAssignment))
	mux.HandleFunc("PUT /devices/{id}/users/{userId}/schedule-assignment", s.admin(s.handleSetScheduleAssignment))

	mux.HandleFunc("GET /schedules", s.admin(s.handleListSchedules))
	mux.HandleFunc("POST /schedules", s.admin(s.handleCreateSchedule))
	mux.HandleFunc("PUT /schedules/{id}", s.admin(s.handleUpdateSchedule))
	mux.HandleFunc("DELETE /schedules/{id}", s.admin(s.handleDeleteSchedule))

	mux.HandleFunc("GET /users", s.admin(s.handleListUsers))
	mux.HandleFunc("GET /users/{id}", s.admin(s.handleGetUser))
	mux.HandleFunc("DELETE /users/{id}", s.admin(s.handleDeleteUser))

	mux.HandleFunc("GET /commands", s.admin(s.handleRecentCommands))
	mux.HandleFunc("GET /events", s.admin(s.handleQueryEvents))
	mux.HandleFunc("POST /admin/purge-events", s.admin(s.handlePurgeEvents))

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
