package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/registrant-portal/internal/auth"
	"github.com/isdelr/registrant-portal/internal/models"
	"github.com/isdelr/registrant-portal/internal/services"
)

// RequestLogger logs each request with zerolog once it completes.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("Request handled")
		}()
		next.ServeHTTP(ww, r)
	})
}

// Sessions resolves the session_id cookie into a session on the request context.
// Browsers without a live session get a fresh anonymous one.
func Sessions(sessions services.SessionServiceProvider, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sess, err := lookupSession(r, sessions)
			switch {
			case err == nil:
				if err := sessions.Touch(ctx, sess.ID); err != nil {
					log.Warn().Err(err).Str("session_id", sess.ID).Msg("Failed to touch session")
				}
			case errors.Is(err, services.ErrSessionNotFound), errors.Is(err, services.ErrSessionExpired):
				sess, err = sessions.Create(ctx)
				if err != nil {
					log.Error().Err(err).Msg("Failed to create session")
					http.Error(w, "Failed to create session", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     auth.SessionCookie,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			default:
				log.Error().Err(err).Msg("Failed to load session")
				http.Error(w, "Failed to load session", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSession(ctx, sess)))
		})
	}
}

func lookupSession(r *http.Request, sessions services.SessionServiceProvider) (models.Session, error) {
	c, err := r.Cookie(auth.SessionCookie)
	if err != nil || c.Value == "" {
		return models.Session{}, services.ErrSessionNotFound
	}
	return sessions.Get(r.Context(), c.Value)
}
