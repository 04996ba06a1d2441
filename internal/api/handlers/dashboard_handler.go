package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/registrant-portal/internal/api/views"
	"github.com/isdelr/registrant-portal/internal/listing"
	"github.com/isdelr/registrant-portal/internal/services"
	"github.com/isdelr/registrant-portal/internal/validation"
)

const dashboardPath = "/dashboard"

// DashboardHandler serves the registrant listing and its edit modal.
type DashboardHandler struct {
	panels        services.PanelServiceProvider
	notifications services.NotificationServiceProvider
	views         *views.Renderer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(panels services.PanelServiceProvider, notifications services.NotificationServiceProvider, renderer *views.Renderer) *DashboardHandler {
	return &DashboardHandler{panels: panels, notifications: notifications, views: renderer}
}

// Show renders the listing. Query parameters: search sets the filter term, page
// navigates (clamped) and reload=1 fetches the collection again.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionOf(r)
	query := r.URL.Query()

	var panel *listing.Panel
	if query.Get("reload") == "1" {
		panel = h.panels.Remount(ctx, sess.ID)
	} else {
		panel = h.panels.Panel(ctx, sess.ID)
	}
	if query.Has("search") {
		panel.SetSearch(query.Get("search"))
	}
	if p := query.Get("page"); p != "" {
		if page, err := strconv.Atoi(p); err == nil {
			panel.GoTo(page)
		}
	}

	// Notifications are drained after the panel so a failed mount shows on this render.
	h.views.Render(w, http.StatusOK, views.PageDashboard, views.DashboardPage{
		Base: pageBase(ctx, h.notifications, sess, "Dashboard"),
		View: panel.View(),
	})
}

// Delete removes a registrant. The outcome is reported as a notification.
func (h *DashboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	panel := h.panels.Panel(ctx, sessionOf(r).ID)
	_ = panel.Delete(ctx, chi.URLParam(r, "id"))
	seeOther(w, r, dashboardPath)
}

// Edit opens the edit modal for a registrant.
func (h *DashboardHandler) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	panel := h.panels.Panel(ctx, sessionOf(r).ID)
	if !panel.Edit(id) {
		log.Warn().Str("registrant_id", id).Msg("Edit requested for unknown registrant")
	}
	seeOther(w, r, dashboardPath)
}

// Update submits the edit modal's draft.
func (h *DashboardHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	values, err := postedValues(r, validation.Edit)
	if err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	panel := h.panels.Panel(ctx, sessionOf(r).ID)
	panel.SetDraft(values)
	// Failures keep the modal open with its errors, or were notified.
	_ = panel.Update(ctx)
	seeOther(w, r, dashboardPath)
}

// Cancel closes the edit modal.
func (h *DashboardHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.panels.Panel(r.Context(), sessionOf(r).ID).CancelEdit()
	seeOther(w, r, dashboardPath)
}
