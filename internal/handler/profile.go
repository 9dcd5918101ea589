package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/avasquez/platefront/internal/auth"
	"github.com/avasquez/platefront/internal/imagestore"
	"github.com/avasquez/platefront/internal/store"
)

type ProfileHandler struct {
	userStore *store.UserStore
	images    *imagestore.Store
	logger    *slog.Logger
}

func NewProfileHandler(us *store.UserStore, images *imagestore.Store, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{userStore: us, images: images, logger: logger}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userStore.GetByID(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get profile", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user.Summary()})
}

type profileRequest struct {
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
	ProfileImage string `json:"profile_image"`
}

// Update edits the caller's profile. A data-URL profile image is uploaded
// to object storage first; a plain URL is stored as-is.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	imageURL := req.ProfileImage
	if imagestore.IsDataURL(req.ProfileImage) {
		uploaded, err := h.images.Upload(r.Context(), "profiles", req.ProfileImage)
		if err != nil {
			h.logger.Error("upload profile image", "user_id", userID, "error", err)
			writeError(w, http.StatusBadRequest, "could not upload image")
			return
		}
		imageURL = uploaded
	}

	user, err := h.userStore.UpdateProfile(userID, req.Name, req.Contact, req.Address, req.City, req.Country, imageURL)
	if err != nil {
		h.logger.Error("update profile", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user.Summary()})
}
