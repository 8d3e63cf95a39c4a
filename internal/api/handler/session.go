package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/irisgate/irisgate/internal/api/request"
	"github.com/irisgate/irisgate/internal/api/response"
	"github.com/irisgate/irisgate/internal/model"
	"github.com/irisgate/irisgate/internal/services/verification"
)

// SessionHandler handles verification session endpoints
type SessionHandler struct {
	controller *verification.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *verification.Controller) *SessionHandler {
	return &SessionHandler{controller: controller}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, err := h.controller.CreateSession(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	session, err := h.controller.GetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}

// Frame handles POST /api/v1/sessions/{id}/frames
//
// The body carries one camera frame's detections; the response is the
// status tuple the kiosk renders.
func (h *SessionHandler) Frame(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.FrameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	status, err := h.controller.Tick(r.Context(), id, &model.FrameObservation{Faces: req.Faces})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, status)
}

// Reset handles POST /api/v1/sessions/{id}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	session, err := h.controller.ResetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session))
}
