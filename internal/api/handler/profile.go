package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/irisgate/irisgate/internal/api/request"
	"github.com/irisgate/irisgate/internal/api/response"
	"github.com/irisgate/irisgate/internal/model"
	"github.com/irisgate/irisgate/internal/services/enrollment"
	"github.com/irisgate/irisgate/internal/storage"
)

// ProfileHandler handles profile enrollment and listing endpoints
type ProfileHandler struct {
	enrollmentService *enrollment.Service
	storage           storage.Storage
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(enrollmentService *enrollment.Service, storage storage.Storage) *ProfileHandler {
	return &ProfileHandler{
		enrollmentService: enrollmentService,
		storage:           storage,
	}
}

// Enroll handles POST /api/v1/profiles
func (h *ProfileHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req request.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	capture := enrollment.Capture{Faces: req.Faces}

	if req.EyeImage != "" {
		img, err := decodeEyeImage(req.EyeImage)
		if err != nil {
			WriteError(w, NewInvalidImageError())
			return
		}
		capture.EyeImage = img
	}

	result, err := h.enrollmentService.Enroll(r.Context(), req.DisplayName, capture)
	if err != nil {
		WriteError(w, err)
		return
	}

	enrolled := response.ProfileFromModel(result.Profile)
	enrolled.NearestDistance = result.NearestDistance
	response.JSON(w, http.StatusCreated, enrolled)
}

// List handles GET /api/v1/profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.enrollmentService.Profiles(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileListFromModel(profiles))
}

// Get handles GET /api/v1/profiles/{id}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.ProfileID(mux.Vars(r)["id"])

	profile, err := h.storage.GetProfile(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(profile))
}

// Delete handles DELETE /api/v1/profiles/{id}
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.ProfileID(mux.Vars(r)["id"])

	if _, err := h.storage.GetProfile(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.storage.DeleteProfile(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// decodeEyeImage decodes a base64 PNG or JPEG eye-region crop.
func decodeEyeImage(encoded string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return img, nil
}
