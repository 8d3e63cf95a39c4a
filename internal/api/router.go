package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/irisgate/irisgate/internal/api/handler"
	"github.com/irisgate/irisgate/internal/api/middleware"
	commonmw "github.com/irisgate/irisgate/internal/middleware"
	"github.com/irisgate/irisgate/internal/services/attendance"
	"github.com/irisgate/irisgate/internal/services/auth"
	"github.com/irisgate/irisgate/internal/services/enrollment"
	"github.com/irisgate/irisgate/internal/services/verification"
	"github.com/irisgate/irisgate/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger                 *slog.Logger
	Storage                storage.Storage
	AuthService            *auth.Service
	EnrollmentService      *enrollment.Service
	AttendanceService      *attendance.Service
	VerificationController *verification.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	operatorHandler := handler.NewOperatorHandler(cfg.AuthService)
	profileHandler := handler.NewProfileHandler(cfg.EnrollmentService, cfg.Storage)
	sessionHandler := handler.NewSessionHandler(cfg.VerificationController)
	attendanceHandler := handler.NewAttendanceHandler(cfg.AttendanceService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := commonmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Operator login (no auth required)
	api.HandleFunc("/operator/login", operatorHandler.Login).Methods(http.MethodPost)

	// Profile routes (enrollment is operator territory)
	profiles := api.PathPrefix("/profiles").Subrouter()
	profiles.Use(authMiddleware)
	profiles.HandleFunc("", profileHandler.Enroll).Methods(http.MethodPost)
	profiles.HandleFunc("", profileHandler.List).Methods(http.MethodGet)
	profiles.HandleFunc("/{id}", profileHandler.Get).Methods(http.MethodGet)
	profiles.HandleFunc("/{id}", profileHandler.Delete).Methods(http.MethodDelete)

	// Session routes drive the kiosk camera loop
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}/frames", sessionHandler.Frame).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/reset", sessionHandler.Reset).Methods(http.MethodPost)

	// Attendance log
	attendanceRoutes := api.PathPrefix("/attendance").Subrouter()
	attendanceRoutes.Use(authMiddleware)
	attendanceRoutes.HandleFunc("", attendanceHandler.List).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
