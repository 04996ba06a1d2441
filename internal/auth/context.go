package auth

import (
	"context"

	"github.com/isdelr/registrant-portal/internal/models"
)

type contextKey string

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "session_id"

// SessionKey is the context key for the request's session.
const SessionKey = contextKey("session")

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess models.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}

// SessionFrom returns the session stored by WithSession.
func SessionFrom(ctx context.Context) (models.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(models.Session)
	return sess, ok
}
