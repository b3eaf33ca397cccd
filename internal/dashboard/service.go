package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/quizflow/internal/logging"
	"github.com/aretw0/quizflow/internal/pubsub"
	"github.com/aretw0/quizflow/pkg/domain"
	"github.com/aretw0/quizflow/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// Service keeps the latest Summary and refreshes it whenever the store changes.
type Service struct {
	store    ports.SubmissionStore
	notifier ports.ChangeNotifier
	logger   *slog.Logger
	observe  func(error)

	hub *pubsub.Hub[Summary]

	mu      sync.Mutex
	latest  *Summary
	lastErr error
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRefreshObserver registers a callback invoked after every refresh with its error (or nil).
func WithRefreshObserver(fn func(error)) Option {
	return func(s *Service) {
		s.observe = fn
	}
}

// NewService creates a dashboard service. notifier may be nil, in which case
// Run only performs the initial load.
func NewService(store ports.SubmissionStore, notifier ports.ChangeNotifier, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: notifier,
		logger:   logging.NewNop(),
		observe:  func(error) {},
		hub:      pubsub.NewHub[Summary](4),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh reads the list and the counts concurrently and publishes the resulting Summary.
// When refreshes overlap, the one that completes last is kept as the latest.
func (s *Service) Refresh(ctx context.Context) (Summary, error) {
	var (
		list   []domain.Submission
		counts map[string]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.store.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = s.store.CountByCategory(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.observe(err)
		s.logger.Warn("dashboard refresh failed", "error", err)
		return Summary{}, err
	}

	summary := Summarize(list, counts)

	s.mu.Lock()
	s.latest = &summary
	s.lastErr = nil
	s.mu.Unlock()

	s.observe(nil)
	s.hub.Publish(summary)
	s.logger.Debug("dashboard refreshed", "total", summary.Total)
	return summary, nil
}

// Latest returns the most recent successful Summary, if any.
func (s *Service) Latest() (Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return Summary{}, false
	}
	return *s.latest, true
}

// LastError returns the error of the most recent refresh, or nil if it succeeded.
func (s *Service) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Subscribe streams every published Summary until ctx is done.
func (s *Service) Subscribe(ctx context.Context) <-chan Summary {
	return s.hub.SubscribeContext(ctx)
}

// Run performs the initial load and then one refresh per change notification
// until ctx is done. A failed initial load is logged and kept as LastError;
// it does not stop the loop.
func (s *Service) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	var changes <-chan struct{}
	if s.notifier != nil {
		ch, err := s.notifier.Watch(ctx)
		if err != nil {
			return err
		}
		changes = ch
	}

	_, _ = s.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = s.Refresh(ctx)
			}()
		}
	}
}

// Close releases subscribers.
func (s *Service) Close() {
	s.hub.Close()
}
