package cache

import (
	"context"
	"sync"
	"time"

	"github.com/smallerp/backend/internal/domain/shared"
)

const sweepEvery = 5 * time.Minute

// InMemoryIdempotencyStore keeps claimed keys in process. It serves a single
// instance and the tests; with several replicas use the Redis store.
type InMemoryIdempotencyStore struct {
	mu       sync.Mutex
	deadline map[string]time.Time
	now      func() time.Time

	stop context.CancelFunc
	done chan struct{}
}

// NewInMemoryIdempotencyStore starts a sweeper that drops expired keys until
// Close is called.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	ctx, cancel := context.WithCancel(context.Background())
	s := &InMemoryIdempotencyStore{
		deadline: map[string]time.Time{},
		now:      time.Now,
		stop:     cancel,
		done:     make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *InMemoryIdempotencyStore) Claim(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if until, held := s.deadline[key]; held && now.Before(until) {
		return false, nil
	}
	s.deadline[key] = now.Add(ttl)
	return true, nil
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.deadline, key)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper and may be called more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.stop()
	<-s.done
	return nil
}

// Size reports how many keys are held, expired or not.
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deadline)
}

func (s *InMemoryIdempotencyStore) run(ctx context.Context) {
	defer close(s.done)
	tick := time.NewTicker(sweepEvery)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, until := range s.deadline {
		if !now.Before(until) {
			delete(s.deadline, key)
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
