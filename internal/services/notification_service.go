package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/registrant-portal/internal/models"
	"github.com/isdelr/registrant-portal/internal/websocket"
)

// NotificationServiceProvider defines the interface for notification services.
type NotificationServiceProvider interface {
	Create(ctx context.Context, sessionID, kind, message string) (models.Notification, error)
	TakePending(ctx context.Context, sessionID string) ([]models.Notification, error)
	GetRecent(ctx context.Context, sessionID string, limit int) ([]models.Notification, error)
}

// Pusher delivers live messages to a session's open pages.
type Pusher interface {
	SendTo(sessionID string, message []byte)
}

// NotificationService persists notifications and pushes them live.
type NotificationService struct {
	db     *sql.DB
	pusher Pusher
	now    func() time.Time
}

// NewNotificationService creates a new NotificationService. pusher may be nil.
func NewNotificationService(db *sql.DB, pusher Pusher) *NotificationService {
	return &NotificationService{db: db, pusher: pusher, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores a notification for the session and pushes it to open pages.
func (s *NotificationService) Create(ctx context.Context, sessionID, kind, message string) (models.Notification, error) {
	n := models.Notification{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Kind:      kind,
		Message:   message,
		CreatedAt: s.now(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notifications (id, session_id, kind, message, created_at) VALUES (?, ?, ?, ?, ?)",
		n.ID, n.SessionID, n.Kind, n.Message, n.CreatedAt.UnixNano())
	if err != nil {
		return models.Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	if s.pusher != nil {
		s.pusher.SendTo(sessionID, websocket.NewNotificationMessage(n))
	}
	return n, nil
}

// TakePending returns undelivered notifications oldest first and marks them delivered.
func (s *NotificationService) TakePending(ctx context.Context, sessionID string) ([]models.Notification, error) {
	pending, err := s.query(ctx,
		"SELECT id, session_id, kind, message, created_at, delivered_at FROM notifications WHERE session_id = ? AND delivered_at IS NULL ORDER BY created_at, rowid",
		sessionID)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}

	now := s.now()
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(pending)), ",")
	args := []any{now.UnixNano()}
	for _, n := range pending {
		args = append(args, n.ID)
	}
	_, err = s.db.ExecContext(ctx,
		"UPDATE notifications SET delivered_at = ? WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("mark delivered: %w", err)
	}
	for i := range pending {
		pending[i].DeliveredAt = &now
	}
	return pending, nil
}

// GetRecent retrieves the most recent notifications of a session, newest first.
func (s *NotificationService) GetRecent(ctx context.Context, sessionID string, limit int) ([]models.Notification, error) {
	return s.query(ctx,
		"SELECT id, session_id, kind, message, created_at, delivered_at FROM notifications WHERE session_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?",
		sessionID, limit)
}

func (s *NotificationService) query(ctx context.Context, q string, args ...any) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		var created int64
		var delivered sql.NullInt64
		if err := rows.Scan(&n.ID, &n.SessionID, &n.Kind, &n.Message, &created, &delivered); err != nil {
			return nil, err
		}
		n.CreatedAt = time.Unix(0, created).UTC()
		if delivered.Valid {
			t := time.Unix(0, delivered.Int64).UTC()
			n.DeliveredAt = &t
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// SessionNotifier binds a notification service to one session. Storage failures are
// logged, never returned: a lost notice must not fail the operation it reports on.
type SessionNotifier struct {
	Service   NotificationServiceProvider
	SessionID string
}

// Notify records a notification for the bound session.
func (n SessionNotifier) Notify(ctx context.Context, kind, message string) {
	// The request that triggered the notice may already be cancelled.
	ctx = context.WithoutCancel(ctx)
	if _, err := n.Service.Create(ctx, n.SessionID, kind, message); err != nil {
		log.Error().Err(err).Str("session_id", n.SessionID).Str("kind", kind).Msg("Failed to store notification")
	}
}
