package handler

import (
	"net/http"

	"github.com/irisgate/irisgate/internal/api/response"
	"github.com/irisgate/irisgate/internal/services/attendance"
)

// AttendanceHandler handles attendance log endpoints
type AttendanceHandler struct {
	attendanceService *attendance.Service
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// List handles GET /api/v1/attendance
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.attendanceService.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AttendanceListFromModel(events))
}
