package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/registrant-portal/internal/api/views"
	"github.com/isdelr/registrant-portal/internal/auth"
	"github.com/isdelr/registrant-portal/internal/forms"
	"github.com/isdelr/registrant-portal/internal/models"
	"github.com/isdelr/registrant-portal/internal/services"
	"github.com/isdelr/registrant-portal/internal/validation"
)

type formPage struct {
	page  string
	title string
	path  string
}

var formPages = map[string]formPage{
	services.FormRegister: {page: views.PageRegister, title: "Register", path: "/"},
	services.FormLogin:    {page: views.PageLogin, title: "Login", path: "/login"},
}

// FormHandler serves the registration and login forms.
type FormHandler struct {
	forms         services.FormServiceProvider
	sessions      services.SessionServiceProvider
	panels        services.PanelServiceProvider
	notifications services.NotificationServiceProvider
	views         *views.Renderer
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(
	forms services.FormServiceProvider,
	sessions services.SessionServiceProvider,
	panels services.PanelServiceProvider,
	notifications services.NotificationServiceProvider,
	renderer *views.Renderer,
) *FormHandler {
	return &FormHandler{forms: forms, sessions: sessions, panels: panels, notifications: notifications, views: renderer}
}

// ShowRegister renders the registration form.
func (h *FormHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, services.FormRegister, http.StatusOK)
}

// SubmitRegister handles a posted registration form.
func (h *FormHandler) SubmitRegister(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, services.FormRegister)
}

// ShowLogin renders the login form.
func (h *FormHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, services.FormLogin, http.StatusOK)
}

// SubmitLogin handles a posted login form.
func (h *FormHandler) SubmitLogin(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, services.FormLogin)
}

// Logout ends the session and sends the browser to the login page.
func (h *FormHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionOf(r)
	if err := h.sessions.End(r.Context(), sess.ID); err != nil {
		log.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to end session")
		http.Error(w, "Failed to log out", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: auth.SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	seeOther(w, r, "/login")
}

// ValidateRequest carries a form's current values. Blur names the field that lost focus.
type ValidateRequest struct {
	Values validation.Values `json:"values"`
	Blur   string            `json:"blur,omitempty"`
}

// ValidateResponse lists the errors to display for touched fields.
type ValidateResponse struct {
	Errors validation.Errors `json:"errors"`
}

// maxValidateBody bounds the JSON accepted by Validate.
const maxValidateBody = 16 << 10

// Validate updates a form from change/blur events without submitting it.
// Only the schema's fields are kept.
func (h *FormHandler) Validate(w http.ResponseWriter, r *http.Request) {
	sess := sessionOf(r)
	name := chi.URLParam(r, "form")
	schema, ok := validation.Lookup(name)
	if !ok {
		http.Error(w, "Unknown form", http.StatusNotFound)
		return
	}
	form, ok := h.forms.Form(sess.ID, name)
	if !ok {
		http.Error(w, "Unknown form", http.StatusNotFound)
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxValidateBody)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	values := validation.Values{}
	for _, f := range schema.FieldNames() {
		if v, ok := req.Values[f]; ok {
			values[f] = v
		}
	}
	form.Fill(values)
	if _, known := schema.Field(req.Blur); known {
		form.Blur(req.Blur)
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Errors: form.Snapshot().Errors})
}

func (h *FormHandler) render(w http.ResponseWriter, r *http.Request, name string, status int) {
	sess := sessionOf(r)
	fp := formPages[name]
	form, _ := h.forms.Form(sess.ID, name)
	snap := form.Snapshot()
	h.views.Render(w, status, fp.page, views.FormPage{
		Base:   pageBase(r.Context(), h.notifications, sess, fp.title),
		Values: snap.Values,
		Errors: snap.Errors,
	})
}

func (h *FormHandler) submit(w http.ResponseWriter, r *http.Request, name string) {
	ctx := r.Context()
	sess := sessionOf(r)
	schema, _ := validation.Lookup(name)
	values, err := postedValues(r, schema)
	if err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	form, _ := h.forms.Form(sess.ID, name)
	form.Fill(values)
	result, err := form.Submit(ctx)
	switch {
	case err == nil:
		notifier := services.SessionNotifier{Service: h.notifications, SessionID: sess.ID}
		notifier.Notify(ctx, models.KindSuccess, result.Message)
		h.forms.Reset(sess.ID, name)
		// The dashboard fetches afresh after any successful submission.
		h.panels.Unmount(sess.ID)
		seeOther(w, r, result.Redirect)
	case errors.Is(err, forms.ErrInvalid):
		h.render(w, r, name, http.StatusUnprocessableEntity)
	case errors.Is(err, forms.ErrSubmitting):
		h.render(w, r, name, http.StatusConflict)
	default:
		log.Error().Err(err).Str("session_id", sess.ID).Str("form", name).Msg("Form submission failed")
		notifier := services.SessionNotifier{Service: h.notifications, SessionID: sess.ID}
		notifier.Notify(ctx, models.KindError, result.Message)
		form.Clear(validation.FieldPassword)
		seeOther(w, r, formPages[name].path)
	}
}
