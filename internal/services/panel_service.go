package services

import (
	"context"
	"sync"

	"github.com/isdelr/registrant-portal/internal/backend"
	"github.com/isdelr/registrant-portal/internal/listing"
)

// PanelServiceProvider defines the interface for per-session listing panels.
type PanelServiceProvider interface {
	Panel(ctx context.Context, sessionID string) *listing.Panel
	Remount(ctx context.Context, sessionID string) *listing.Panel
	Unmount(sessionID string)
}

type mountedPanel struct {
	panel *listing.Panel

	mu      sync.Mutex
	fetched bool
}

// PanelService owns one listing panel per session. Panels live in memory only; the
// backend is authoritative and a restart simply remounts on the next visit.
type PanelService struct {
	api           backend.Provider
	notifications NotificationServiceProvider

	mu     sync.Mutex
	panels map[string]*mountedPanel
}

// NewPanelService creates a new PanelService.
func NewPanelService(api backend.Provider, notifications NotificationServiceProvider) *PanelService {
	return &PanelService{api: api, notifications: notifications, panels: make(map[string]*mountedPanel)}
}

// Panel returns the session's panel, mounting it on first use. A failed mount is
// retried on the next call. Concurrent first callers wait for the same mount.
func (s *PanelService) Panel(ctx context.Context, sessionID string) *listing.Panel {
	s.mu.Lock()
	mp, ok := s.panels[sessionID]
	if !ok {
		mp = &mountedPanel{
			panel: listing.NewPanel(s.api, SessionNotifier{Service: s.notifications, SessionID: sessionID}),
		}
		s.panels[sessionID] = mp
	}
	s.mu.Unlock()

	mp.mu.Lock()
	defer mp.mu.Unlock()
	if !mp.fetched {
		// A failed fetch is surfaced as a notification; the panel still renders.
		// The fetch outlives a request the browser abandons.
		mp.fetched = mp.panel.Mount(context.WithoutCancel(ctx)) == nil
	}
	return mp.panel
}

// Remount discards the session's panel and mounts a fresh one.
func (s *PanelService) Remount(ctx context.Context, sessionID string) *listing.Panel {
	s.Unmount(sessionID)
	return s.Panel(ctx, sessionID)
}

// Unmount drops the session's panel, if any.
func (s *PanelService) Unmount(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.panels, sessionID)
}

// Mounted reports how many panels are held.
func (s *PanelService) Mounted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.panels)
}
