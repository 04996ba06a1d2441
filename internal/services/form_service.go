package services

import (
	"context"
	"sync"

	"github.com/isdelr/registrant-portal/internal/backend"
	"github.com/isdelr/registrant-portal/internal/forms"
)

// Form names.
const (
	FormRegister = "register"
	FormLogin    = "login"
)

// FormServiceProvider defines the interface for per-session forms.
type FormServiceProvider interface {
	Form(sessionID, name string) (*forms.Form, bool)
	Reset(sessionID, name string)
}

// FormService keeps each session's in-progress forms so field values and touched
// state survive re-renders, and a double submit is caught by the form itself.
type FormService struct {
	api      backend.Provider
	sessions SessionServiceProvider

	mu    sync.Mutex
	forms map[string]map[string]*forms.Form
}

// NewFormService creates a new FormService.
func NewFormService(api backend.Provider, sessions SessionServiceProvider) *FormService {
	return &FormService{api: api, sessions: sessions, forms: make(map[string]map[string]*forms.Form)}
}

// Form returns the session's form by name, creating it on first use.
// It reports false for unknown form names.
func (s *FormService) Form(sessionID, name string) (*forms.Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byName := s.forms[sessionID]
	if f, ok := byName[name]; ok {
		return f, true
	}

	var f *forms.Form
	switch name {
	case FormRegister:
		f = forms.NewRegister(s.api, func() string { return s.token(sessionID) })
	case FormLogin:
		f = forms.NewLogin(s.api, func(ctx context.Context, token string) error {
			_, err := s.sessions.Begin(ctx, sessionID, token)
			return err
		})
	default:
		return nil, false
	}
	if byName == nil {
		byName = make(map[string]*forms.Form)
		s.forms[sessionID] = byName
	}
	byName[name] = f
	return f, true
}

// Reset discards a session's form so the next visit starts blank.
func (s *FormService) Reset(sessionID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.forms[sessionID], name)
}

// Drop discards every form of a session.
func (s *FormService) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.forms, sessionID)
}

// token reads the session's current token at submit time, so a login in another
// tab is picked up without recreating the form.
func (s *FormService) token(sessionID string) string {
	sess, err := s.sessions.Get(context.Background(), sessionID)
	if err != nil {
		return ""
	}
	return sess.Token
}
