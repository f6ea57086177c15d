// Package store is the application action store that link clicks can be
// routed into.
package store

import (
	"sync"

	"github.com/luqmaan/hyperterm-clicky/logger"
)

// SessionURLSet asks the application to load URL inside the session.
const SessionURLSet = "SESSION_URL_SET"

type Action struct {
	Type      string
	SessionID string
	URL       string
}

// Store keeps the URL loaded by each session and notifies subscribers of
// every action it accepts.
type Store struct {
	mu          sync.RWMutex
	sessionURLs map[string]string
	subscribers []func(Action)
	logger      logger.Logger
}

func New(log logger.Logger) *Store {
	return &Store{
		sessionURLs: make(map[string]string),
		logger:      logger.OrDiscard(log),
	}
}

// Dispatch applies action. Unknown action types are logged and dropped.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	switch action.Type {
	case SessionURLSet:
		s.sessionURLs[action.SessionID] = action.URL
	default:
		s.mu.Unlock()
		s.logger.Warn("ignoring unknown action", "type", action.Type)
		return
	}
	subscribers := append([]func(Action){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(action)
	}
}

// SessionURL returns the URL last set for the session.
func (s *Store) SessionURL(sessionID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	url, ok := s.sessionURLs[sessionID]
	return url, ok
}

// Subscribe registers fn to be called after each accepted action.
func (s *Store) Subscribe(fn func(Action)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
