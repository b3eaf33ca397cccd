package ports

import (
	"context"

	"github.com/aretw0/quizflow/pkg/domain"
)

// SubmissionStore persists completed runs.
// Failures are reported as *domain.StoreError matching domain.ErrStoreWrite or domain.ErrStoreRead.
type SubmissionStore interface {
	// Insert appends one record. The store assigns the id and the timestamp.
	Insert(ctx context.Context, nickname, resultTitle string) (*domain.Submission, error)

	// List returns every record, newest first.
	List(ctx context.Context) ([]domain.Submission, error)

	// CountByCategory tallies records per result title.
	// Titles without records are omitted, not zero-filled.
	CountByCategory(ctx context.Context) (map[string]int, error)

	// DeleteAll irreversibly removes every record. No safeguard is applied here;
	// callers must obtain confirmation first.
	DeleteAll(ctx context.Context) error
}

// ChangeNotifier signals that the store contents changed.
type ChangeNotifier interface {
	// Watch returns a channel that receives a value after every insert or delete.
	// Signals carry no payload and may be coalesced; consumers re-fetch full state.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}

// WatchableStore is a SubmissionStore that can notify about changes.
type WatchableStore interface {
	SubmissionStore
	ChangeNotifier
}
