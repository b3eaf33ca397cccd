package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/quizflow/internal/pubsub"
	"github.com/aretw0/quizflow/pkg/domain"
	"github.com/google/uuid"
)

// Store implements ports.SubmissionStore and ports.ChangeNotifier in memory.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data []domain.Submission // Insertion order (oldest first)

	hub *pubsub.Hub[struct{}]
	now func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithClock overrides the time source for submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		hub: pubsub.NewHub[struct{}](1),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert appends a record.
func (s *Store) Insert(ctx context.Context, nickname, resultTitle string) (*domain.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WriteFailure("insert", err)
	}

	sub := domain.Submission{
		ID:          uuid.NewString(),
		Nickname:    nickname,
		ResultTitle: resultTitle,
		SubmittedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.data = append(s.data, sub)
	s.mu.Unlock()

	s.hub.Publish(struct{}{})
	return &sub, nil
}

// List returns a copy of all records, newest first.
func (s *Store) List(ctx context.Context) ([]domain.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.ReadFailure("list", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Submission, 0, len(s.data))
	for i := len(s.data) - 1; i >= 0; i-- {
		out = append(out, s.data[i])
	}
	return out, nil
}

// CountByCategory tallies records by result title.
func (s *Store) CountByCategory(ctx context.Context) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.ReadFailure("count", err)
	}

	s.mu.RLock()
	titles := make([]string, len(s.data))
	for i, sub := range s.data {
		titles[i] = sub.ResultTitle
	}
	s.mu.RUnlock()

	return domain.Tally(titles), nil
}

// DeleteAll removes every record.
func (s *Store) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return domain.WriteFailure("delete_all", err)
	}

	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()

	s.hub.Publish(struct{}{})
	return nil
}

// Watch returns a channel signalled after every change until ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	return s.hub.SubscribeContext(ctx), nil
}

// Close releases all watchers.
func (s *Store) Close() error {
	s.hub.Close()
	return nil
}

