package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/avasquez/platefront/internal/auth"
	"github.com/avasquez/platefront/internal/imagestore"
	"github.com/avasquez/platefront/internal/model"
	"github.com/avasquez/platefront/internal/store"
)

type RestaurantHandler struct {
	restaurantStore *store.RestaurantStore
	menuItemStore   *store.MenuItemStore
	images          *imagestore.Store
	logger          *slog.Logger
}

func NewRestaurantHandler(rs *store.RestaurantStore, ms *store.MenuItemStore, images *imagestore.Store, logger *slog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantStore: rs,
		menuItemStore:   ms,
		images:          images,
		logger:          logger,
	}
}

type restaurantRequest struct {
	Name                string   `json:"name"`
	City                string   `json:"city"`
	Country             string   `json:"country"`
	DeliveryTimeMinutes int      `json:"delivery_time_minutes"`
	Cuisines            []string `json:"cuisines"`
	Image               string   `json:"image"`
}

func (h *RestaurantHandler) resolveImage(r *http.Request, image string) (string, error) {
	if !imagestore.IsDataURL(image) {
		return image, nil
	}
	return h.images.Upload(r.Context(), "restaurants", image)
}

// Create registers the caller's restaurant. One restaurant per account.
func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := auth.UserID(r.Context())

	existing, err := h.restaurantStore.GetByOwnerID(ownerID)
	if err != nil {
		h.logger.Error("restaurant lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "you already have a restaurant")
		return
	}

	var req restaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	imageURL, err := h.resolveImage(r, req.Image)
	if err != nil {
		h.logger.Error("upload restaurant image", "error", err)
		writeError(w, http.StatusBadRequest, "could not upload image")
		return
	}

	restaurant, err := h.restaurantStore.Create(ownerID, req.Name, req.City, req.Country, req.DeliveryTimeMinutes, req.Cuisines, imageURL)
	if err != nil {
		h.logger.Error("create restaurant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create restaurant")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"restaurant": restaurant})
}

// GetOwn returns the caller's restaurant.
func (h *RestaurantHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.restaurantStore.GetByOwnerID(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get restaurant", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if restaurant == nil {
		writeError(w, http.StatusNotFound, "restaurant not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"restaurant": restaurant})
}

// Update edits the caller's restaurant.
func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.restaurantStore.GetByOwnerID(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("restaurant lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if restaurant == nil {
		writeError(w, http.StatusNotFound, "restaurant not found")
		return
	}

	var req restaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	imageURL, err := h.resolveImage(r, req.Image)
	if err != nil {
		h.logger.Error("upload restaurant image", "error", err)
		writeError(w, http.StatusBadRequest, "could not upload image")
		return
	}
	if imageURL == "" {
		imageURL = restaurant.ImageURL
	}

	updated, err := h.restaurantStore.Update(restaurant.ID, req.Name, req.City, req.Country, req.DeliveryTimeMinutes, req.Cuisines, imageURL)
	if err != nil {
		h.logger.Error("update restaurant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update restaurant")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"restaurant": updated})
}

// Search lists restaurants in a city.
func (h *RestaurantHandler) Search(w http.ResponseWriter, r *http.Request) {
	city := r.PathValue("city")
	restaurants, err := h.restaurantStore.SearchByCity(city)
	if err != nil {
		h.logger.Error("search restaurants", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if restaurants == nil {
		restaurants = []model.Restaurant{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"restaurants": restaurants})
}

// Get returns one restaurant with its menu.
func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	restaurant, err := h.restaurantStore.GetByID(id)
	if err != nil {
		h.logger.Error("get restaurant", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if restaurant == nil {
		writeError(w, http.StatusNotFound, "restaurant not found")
		return
	}

	menu, err := h.menuItemStore.ListByRestaurant(id)
	if err != nil {
		h.logger.Error("list menu", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if menu == nil {
		menu = []model.MenuItem{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"restaurant": restaurant, "menu": menu})
}
