package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/isdelr/registrant-portal/internal/auth"
	"github.com/isdelr/registrant-portal/internal/models"
)

var (
	// ErrSessionNotFound is returned when no session has the given id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a session is past its expiry. It has been torn down.
	ErrSessionExpired = errors.New("session expired")
)

// SessionServiceProvider defines the interface for session services.
type SessionServiceProvider interface {
	Create(ctx context.Context) (models.Session, error)
	Get(ctx context.Context, id string) (models.Session, error)
	Touch(ctx context.Context, id string) error
	Begin(ctx context.Context, id, token string) (models.Session, error)
	End(ctx context.Context, id string) error
	EndExpired(ctx context.Context) (int, error)
	OnEnd(hook func(sessionID string))
}

// SessionService stores browser sessions in SQLite. Tokens are sealed at rest.
type SessionService struct {
	db     *sql.DB
	sealer *auth.Sealer
	ttl    time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	hooks []func(sessionID string)
}

// NewSessionService creates a new SessionService. ttl bounds anonymous sessions and
// sessions whose token carries no expiry.
func NewSessionService(db *sql.DB, sealer *auth.Sealer, ttl time.Duration) *SessionService {
	return &SessionService{db: db, sealer: sealer, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

// OnEnd registers a teardown hook run after a session ends.
func (s *SessionService) OnEnd(hook func(sessionID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Create starts an anonymous session.
func (s *SessionService) Create(ctx context.Context) (models.Session, error) {
	now := s.now()
	sess := models.Session{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
		LastSeenAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, token_sealed, created_at, expires_at, last_seen_at) VALUES (?, NULL, ?, ?, ?)",
		sess.ID, now.UnixNano(), sess.ExpiresAt.UnixNano(), now.UnixNano())
	if err != nil {
		return models.Session{}, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// Get loads a session. An expired session is torn down and ErrSessionExpired returned.
func (s *SessionService) Get(ctx context.Context, id string) (models.Session, error) {
	var sealed []byte
	var created, expires, seen int64
	row := s.db.QueryRowContext(ctx,
		"SELECT token_sealed, created_at, expires_at, last_seen_at FROM sessions WHERE id = ?", id)
	if err := row.Scan(&sealed, &created, &expires, &seen); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}

	sess := models.Session{
		ID:         id,
		CreatedAt:  time.Unix(0, created).UTC(),
		ExpiresAt:  time.Unix(0, expires).UTC(),
		LastSeenAt: time.Unix(0, seen).UTC(),
	}
	if sess.Expired(s.now()) {
		if err := s.End(ctx, id); err != nil {
			return models.Session{}, err
		}
		return models.Session{}, ErrSessionExpired
	}

	if len(sealed) > 0 {
		token, err := s.sealer.Open(sealed, []byte(id))
		if err != nil {
			// Sealed under a previous key; the session continues anonymously.
			log.Warn().Err(err).Str("session_id", id).Msg("Could not open session token")
		} else {
			sess.Token = string(token)
		}
	}
	return sess, nil
}

// Touch records activity. Anonymous sessions slide their expiry forward.
func (s *SessionService) Touch(ctx context.Context, id string) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
	UPDATE sessions
	SET last_seen_at = ?,
	    expires_at = CASE WHEN token_sealed IS NULL THEN ? ELSE expires_at END
	WHERE id = ?`, now.UnixNano(), now.Add(s.ttl).UnixNano(), id)
	return err
}

// Begin stores the token returned by login. Expiry follows the token's exp claim
// when it has one.
func (s *SessionService) Begin(ctx context.Context, id, token string) (models.Session, error) {
	if token == "" {
		return models.Session{}, fmt.Errorf("begin session: empty token")
	}
	sealed, err := s.sealer.Seal([]byte(token), []byte(id))
	if err != nil {
		return models.Session{}, fmt.Errorf("seal token: %w", err)
	}
	now := s.now()
	expires := auth.SessionExpiry(token, now, s.ttl)

	res, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET token_sealed = ?, expires_at = ?, last_seen_at = ? WHERE id = ?",
		sealed, expires.UnixNano(), now.UnixNano(), id)
	if err != nil {
		return models.Session{}, fmt.Errorf("store token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Session{}, ErrSessionNotFound
	}
	log.Info().Str("session_id", id).Time("expires_at", expires).Msg("Session authenticated")
	return s.Get(ctx, id)
}

// End tears a session down: the row and its notifications are deleted and the
// teardown hooks run. Ending an unknown session is not an error.
func (s *SessionService) End(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM notifications WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.runHooks(id)
	return nil
}

// EndExpired tears down every session past its expiry and returns how many ended.
func (s *SessionService) EndExpired(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM sessions WHERE expires_at <= ?", s.now().UnixNano())
	if err != nil {
		return 0, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := s.End(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

func (s *SessionService) runHooks(id string) {
	s.mu.RLock()
	hooks := append([]func(string){}, s.hooks...)
	s.mu.RUnlock()
	for _, hook := range hooks {
		hook(id)
	}
}
