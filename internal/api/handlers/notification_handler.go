package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/registrant-portal/internal/models"
	"github.com/isdelr/registrant-portal/internal/services"
)

// NotificationHandler handles HTTP requests related to session notifications.
type NotificationHandler struct {
	service services.NotificationServiceProvider
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service services.NotificationServiceProvider) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// GetRecent handles the request to get the session's recent notifications.
func (h *NotificationHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 20 // Default limit
	}

	sess := sessionOf(r)
	notifications, err := h.service.GetRecent(r.Context(), sess.ID, limit)
	if err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to retrieve notifications")
		http.Error(w, "Failed to retrieve notifications", http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}
