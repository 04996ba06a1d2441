package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/isdelr/registrant-portal/internal/api/views"
	"github.com/isdelr/registrant-portal/internal/auth"
	"github.com/isdelr/registrant-portal/internal/models"
	"github.com/isdelr/registrant-portal/internal/services"
	"github.com/isdelr/registrant-portal/internal/validation"
)

// sessionOf returns the request's session. The Sessions middleware guarantees one.
func sessionOf(r *http.Request) models.Session {
	sess, _ := auth.SessionFrom(r.Context())
	return sess
}

// pageBase drains the session's pending notifications into the page.
func pageBase(ctx context.Context, notifications services.NotificationServiceProvider, sess models.Session, title string) views.Base {
	pending, err := notifications.TakePending(ctx, sess.ID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to load notifications")
	}
	return views.Base{Title: title, Authenticated: sess.Authenticated(), Notifications: pending}
}

// postedValues reads the schema's fields from a submitted form.
func postedValues(r *http.Request, schema validation.Schema) (validation.Values, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	values := validation.Values{}
	for _, f := range schema.FieldNames() {
		values[f] = r.PostForm.Get(f)
	}
	return values, nil
}

func seeOther(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
