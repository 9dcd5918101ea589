package handler

import (
	"log/slog"
	"net/http"

	"github.com/avasquez/platefront/internal/model"
	"github.com/avasquez/platefront/internal/store"
)

// AdminHandler serves the operator endpoints. Routes must be mounted
// behind middleware.RequireAdmin.
type AdminHandler struct {
	userStore *store.UserStore
	logger    *slog.Logger
}

func NewAdminHandler(us *store.UserStore, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{userStore: us, logger: logger}
}

// ListUsers returns every account as a summary, newest first.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List()
	if err != nil {
		h.logger.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	summaries := make([]model.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": summaries})
}
