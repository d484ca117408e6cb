package service

import (
	"sync"
	"time"

	"imbalance_go/internal/domain"
)

// Session exposes the latest quote and position snapshots to readers outside
// the hotpath (sizing decisions, reporting). The engine publishes after every
// processed event; reads never touch the single-writer structures themselves.
type Session struct {
	mu       sync.RWMutex
	quote    domain.QuoteSnapshot
	position domain.PositionSnapshot
	updated  time.Time
}

// NewSession creates an empty session view.
func NewSession() *Session {
	return &Session{}
}

// Publish stores the latest snapshots. Called by the engine only.
func (s *Session) Publish(q domain.QuoteSnapshot, p domain.PositionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quote = q
	s.position = p
	s.updated = time.Now()
}

// Quote returns the latest quote snapshot.
func (s *Session) Quote() domain.QuoteSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.quote
}

// Position returns the latest position snapshot.
func (s *Session) Position() domain.PositionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.position
}

// UpdatedAt returns when the session last received a snapshot.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.updated
}
