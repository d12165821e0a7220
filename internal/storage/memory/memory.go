package memory

import (
	"context"
	"sync"
	"time"
	"voltabot/internal/order"
)

type entry struct {
	draft     order.Draft
	updatedAt time.Time
}

// Store keeps drafts in process memory. Drafts untouched for longer than
// the TTL are treated as absent and dropped on access or by Sweep.
type Store struct {
	mu     sync.RWMutex
	drafts map[int64]entry
	ttl    time.Duration
	now    func() time.Time
}

// New creates a store; ttl <= 0 disables expiry.
func New(ttl time.Duration) *Store {
	return &Store{
		drafts: make(map[int64]entry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Load returns a copy of the stored draft, or a fresh one.
func (s *Store) Load(_ context.Context, userID int64) (*order.Draft, error) {
	s.mu.RLock()
	e, ok := s.drafts[userID]
	s.mu.RUnlock()

	if !ok {
		return order.New(), nil
	}
	if s.expired(e) {
		s.mu.Lock()
		if cur, ok := s.drafts[userID]; ok && s.expired(cur) {
			delete(s.drafts, userID)
		}
		s.mu.Unlock()
		return order.New(), nil
	}

	d := e.draft
	return &d, nil
}

func (s *Store) Save(_ context.Context, userID int64, d *order.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[userID] = entry{draft: *d, updatedAt: s.now()}
	return nil
}

// Sweep drops every expired draft and reports how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.drafts {
		if s.expired(e) {
			delete(s.drafts, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}

func (s *Store) expired(e entry) bool {
	return s.ttl > 0 && s.now().Sub(e.updatedAt) > s.ttl
}
