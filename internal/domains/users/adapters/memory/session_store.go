package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	session sync.Map
	now     func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	s.session.Store(session.ID, session)
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	value, ok := s.session.Load(id)
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	session := value.(domain.Session)
	return &session, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.session.Delete(id)
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context) (int64, error) {
	now := s.now()
	var purged int64
	s.session.Range(func(key, value any) bool {
		if value.(domain.Session).Expired(now) {
			s.session.Delete(key)
			purged++
		}
		return true
	})
	return purged, nil
}
