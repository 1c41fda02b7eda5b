package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Govind-619/MakeOffer/negotiation"
)

const attemptCleanupInterval = 30 * time.Minute

type memoryEntry struct {
	state     negotiation.State
	expiresAt time.Time
}

// MemoryAttemptStore keeps attempt state in process memory
type MemoryAttemptStore struct {
	mu          sync.Mutex
	ttl         time.Duration
	now         func() time.Time
	entries     map[string]memoryEntry
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewMemoryAttemptStore creates an in-memory store and starts its cleanup loop.
// Call Stop to end the loop.
func NewMemoryAttemptStore(ttl time.Duration) *MemoryAttemptStore {
	if ttl <= 0 {
		ttl = negotiation.StateTTL
	}
	s := &MemoryAttemptStore{
		ttl:         ttl,
		now:         time.Now,
		entries:     make(map[string]memoryEntry),
		stopCleanup: make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

func (s *MemoryAttemptStore) cleanupLoop() {
	ticker := time.NewTicker(attemptCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryAttemptStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// Stop ends the cleanup loop
func (s *MemoryAttemptStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCleanup) })
}

func memoryKey(visitorKey, productID string) string {
	return visitorKey + "|" + negotiation.AttemptKey(productID)
}

// get must be called with mu held
func (s *MemoryAttemptStore) get(key string) negotiation.State {
	entry, ok := s.entries[key]
	if !ok {
		return negotiation.State{}
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return negotiation.State{}
	}
	return entry.state
}

func (s *MemoryAttemptStore) Get(_ context.Context, visitorKey, productID string) (negotiation.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(memoryKey(visitorKey, productID)), nil
}

func (s *MemoryAttemptStore) Update(_ context.Context, visitorKey, productID string, fn func(negotiation.State) (negotiation.State, error)) (negotiation.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey(visitorKey, productID)
	next, err := fn(s.get(key))
	if err != nil {
		return negotiation.State{}, err
	}
	if next.IsZero() {
		delete(s.entries, key)
		return negotiation.State{}, nil
	}
	s.entries[key] = memoryEntry{state: next, expiresAt: s.now().Add(s.ttl)}
	return next, nil
}

func (s *MemoryAttemptStore) Clear(_ context.Context, visitorKey, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, memoryKey(visitorKey, productID))
	return nil
}
