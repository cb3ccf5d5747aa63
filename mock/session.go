package mock

import (
	"context"

	"github.com/truxtai/webextract"
)

var _ webextract.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of webextract.SessionService.
type SessionService struct {
	CreateSessionFn   func(ctx context.Context, session *webextract.ExtractionSession) error
	FindSessionByIDFn func(ctx context.Context, id string) (*webextract.ExtractionSession, error)
	FindSessionsFn    func(ctx context.Context, filter webextract.SessionFilter) ([]*webextract.ExtractionSession, error)
	DeleteSessionFn   func(ctx context.Context, id string) error
}

func (s *SessionService) CreateSession(ctx context.Context, session *webextract.ExtractionSession) error {
	return s.CreateSessionFn(ctx, session)
}

func (s *SessionService) FindSessionByID(ctx context.Context, id string) (*webextract.ExtractionSession, error) {
	return s.FindSessionByIDFn(ctx, id)
}

func (s *SessionService) FindSessions(ctx context.Context, filter webextract.SessionFilter) ([]*webextract.ExtractionSession, error) {
	return s.FindSessionsFn(ctx, filter)
}

func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	return s.DeleteSessionFn(ctx, id)
}
