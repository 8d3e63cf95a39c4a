package handler

import (
	"encoding/json"
	"net/http"

	"github.com/irisgate/irisgate/internal/api/request"
	"github.com/irisgate/irisgate/internal/api/response"
	"github.com/irisgate/irisgate/internal/services/auth"
)

// OperatorHandler handles operator authentication endpoints
type OperatorHandler struct {
	authService *auth.Service
}

// NewOperatorHandler creates a new operator handler
func NewOperatorHandler(authService *auth.Service) *OperatorHandler {
	return &OperatorHandler{authService: authService}
}

// Login handles POST /api/v1/operator/login
func (h *OperatorHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	token, err := h.authService.Login(req.Key)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Token{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	})
}
