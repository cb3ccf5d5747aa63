package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/truxtai/webextract"
)

// Compile-time interface verification.
var _ webextract.SessionService = (*SessionService)(nil)

// SessionService implements webextract.SessionService using SQLite.
type SessionService struct {
	db *DB
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *DB) *SessionService {
	return &SessionService{db: db}
}

// CreateSession records a finished session and its page metadata.
func (s *SessionService) CreateSession(ctx context.Context, session *webextract.ExtractionSession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	session.ID = uuid.New().String()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, start_url, mode, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.StartURL, string(session.Mode),
		session.StartedAt.UTC().Format(time.RFC3339), session.FinishedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	for i := range session.Pages {
		p := &session.Pages[i]
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO session_pages (session_id, position, url, title, content_hash, bytes, tokens, error, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, session.ID, i, p.URL, p.Title, p.ContentHash, p.Bytes, p.Tokens, p.Err, p.Duration.Milliseconds())
		if err != nil {
			return err
		}
	}

	return nil
}

// FindSessionByID retrieves a session with its page results.
func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*webextract.ExtractionSession, error) {
	var session webextract.ExtractionSession
	var startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, start_url, mode, started_at, finished_at
		FROM sessions
		WHERE id = ?
	`, id).Scan(&session.ID, &session.StartURL, (*string)(&session.Mode), &startedAt, &finishedAt)

	if err == sql.ErrNoRows {
		return nil, webextract.Errorf(webextract.ENOTFOUND, "session not found")
	}
	if err != nil {
		return nil, err
	}

	if session.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if session.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
		return nil, fmt.Errorf("failed to parse finished_at: %w", err)
	}

	if session.Pages, err = s.findPages(ctx, session.ID); err != nil {
		return nil, err
	}

	return &session, nil
}

// FindSessions retrieves sessions matching the filter, most recent first.
// Page results are included for each session.
func (s *SessionService) FindSessions(ctx context.Context, filter webextract.SessionFilter) ([]*webextract.ExtractionSession, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, start_url, mode, started_at, finished_at FROM sessions WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.StartURL != nil {
		query.WriteString(" AND start_url = ?")
		args = append(args, *filter.StartURL)
	}

	query.WriteString(" ORDER BY started_at DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*webextract.ExtractionSession
	for rows.Next() {
		var session webextract.ExtractionSession
		var startedAt, finishedAt string

		if err := rows.Scan(&session.ID, &session.StartURL, (*string)(&session.Mode), &startedAt, &finishedAt); err != nil {
			return nil, err
		}

		if session.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
			return nil, fmt.Errorf("failed to parse started_at: %w", err)
		}
		if session.FinishedAt, err = time.Parse(time.RFC3339, finishedAt); err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}

		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, session := range sessions {
		if session.Pages, err = s.findPages(ctx, session.ID); err != nil {
			return nil, err
		}
	}

	return sessions, nil
}

// DeleteSession permanently removes a session; pages cascade.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return webextract.Errorf(webextract.ENOTFOUND, "session not found")
	}

	return nil
}

// findPages loads a session's page records in position order.
func (s *SessionService) findPages(ctx context.Context, sessionID string) ([]webextract.PageResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, content_hash, bytes, tokens, error, duration_ms
		FROM session_pages
		WHERE session_id = ?
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []webextract.PageResult
	for rows.Next() {
		var p webextract.PageResult
		var durationMS int64

		if err := rows.Scan(&p.URL, &p.Title, &p.ContentHash, &p.Bytes, &p.Tokens, &p.Err, &durationMS); err != nil {
			return nil, err
		}
		p.Duration = time.Duration(durationMS) * time.Millisecond

		pages = append(pages, p)
	}

	return pages, rows.Err()
}
