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

type MenuHandler struct {
	restaurantStore *store.RestaurantStore
	menuItemStore   *store.MenuItemStore
	images          *imagestore.Store
	logger          *slog.Logger
}

func NewMenuHandler(rs *store.RestaurantStore, ms *store.MenuItemStore, images *imagestore.Store, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		restaurantStore: rs,
		menuItemStore:   ms,
		images:          images,
		logger:          logger,
	}
}

type menuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Image       string `json:"image"`
}

func (h *MenuHandler) ownRestaurant(w http.ResponseWriter, r *http.Request) (int64, bool) {
	restaurant, err := h.restaurantStore.GetByOwnerID(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("restaurant lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return 0, false
	}
	if restaurant == nil {
		writeError(w, http.StatusNotFound, "restaurant not found")
		return 0, false
	}
	return restaurant.ID, true
}

func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.ownRestaurant(w, r)
	if !ok {
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.PriceCents < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	imageURL := req.Image
	if imagestore.IsDataURL(req.Image) {
		uploaded, err := h.images.Upload(r.Context(), "menu", req.Image)
		if err != nil {
			h.logger.Error("upload menu image", "error", err)
			writeError(w, http.StatusBadRequest, "could not upload image")
			return
		}
		imageURL = uploaded
	}

	item, err := h.menuItemStore.Create(restaurantID, req.Name, req.Description, req.PriceCents, imageURL)
	if err != nil {
		h.logger.Error("create menu item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create menu item")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"menu_item": item})
}

func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.ownRestaurant(w, r)
	if !ok {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := h.menuItemStore.GetByID(id)
	if err != nil {
		h.logger.Error("get menu item", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil || item.RestaurantID != restaurantID {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.PriceCents < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	imageURL := req.Image
	if imagestore.IsDataURL(req.Image) {
		uploaded, err := h.images.Upload(r.Context(), "menu", req.Image)
		if err != nil {
			h.logger.Error("upload menu image", "error", err)
			writeError(w, http.StatusBadRequest, "could not upload image")
			return
		}
		imageURL = uploaded
	}
	if imageURL == "" {
		imageURL = item.ImageURL
	}

	updated, err := h.menuItemStore.Update(id, req.Name, req.Description, req.PriceCents, imageURL)
	if err != nil {
		h.logger.Error("update menu item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update menu item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"menu_item": updated})
}

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	restaurantID, ok := h.ownRestaurant(w, r)
	if !ok {
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := h.menuItemStore.GetByID(id)
	if err != nil {
		h.logger.Error("get menu item", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil || item.RestaurantID != restaurantID {
		writeError(w, http.StatusNotFound, "menu item not found")
		return
	}

	if err := h.menuItemStore.Delete(id); err != nil {
		h.logger.Error("delete menu item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete menu item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
