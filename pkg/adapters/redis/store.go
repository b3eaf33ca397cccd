// Package redis implements the submission store on Redis: one hash per
// submission, a sorted set indexing them in insertion order and a Pub/Sub channel
// announcing changes to every process sharing the instance.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/quizflow/pkg/domain"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

const (
	defaultPrefix  = "quizflow:"
	defaultChannel = "quizflow:changes"
)

// insertScript writes the hash and indexes it under the next value of a
// counter, so newest-first order is insertion order even when timestamps tie.
// KEYS: submission hash, index, sequence. ARGV: id, nickname, result_title, submitted_at.
var insertScript = backend.NewScript(`
local seq = redis.call('INCR', KEYS[3])
redis.call('HSET', KEYS[1], 'id', ARGV[1], 'nickname', ARGV[2], 'result_title', ARGV[3], 'submitted_at', ARGV[4])
redis.call('ZADD', KEYS[2], seq, ARGV[1])
return seq
`)

// deleteAllScript drops every indexed hash and the index in one step, so an
// insert can never land between reading the index and deleting it.
// KEYS: index. ARGV: submission key prefix.
var deleteAllScript = backend.NewScript(`
local ids = redis.call('ZRANGE', KEYS[1], 0, -1)
for _, id in ipairs(ids) do
	redis.call('DEL', ARGV[1] .. id)
end
redis.call('DEL', KEYS[1])
return #ids
`)

// Store implements ports.SubmissionStore and ports.ChangeNotifier using Redis.
type Store struct {
	client  *backend.Client
	prefix  string
	channel string
	now     func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithPrefix sets the key prefix (default "quizflow:").
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithChannel sets the Pub/Sub channel used for change notifications.
func WithChannel(channel string) Option {
	return func(s *Store) {
		s.channel = channel
	}
}

// WithClock overrides the time source for submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store connected to addr.
func New(addr, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Store on an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client:  client,
		prefix:  defaultPrefix,
		channel: defaultChannel,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(id string) string {
	return s.prefix + "submission:" + id
}

func (s *Store) seqKey() string {
	return s.prefix + "seq"
}

func (s *Store) indexKey() string {
	return s.prefix + "submissions"
}

// Insert stores the hash and its index entry atomically, then announces the change.
// The index is ordered by insertion sequence, not by timestamp.
func (s *Store) Insert(ctx context.Context, nickname, resultTitle string) (*domain.Submission, error) {
	sub := domain.Submission{
		ID:          uuid.NewString(),
		Nickname:    nickname,
		ResultTitle: resultTitle,
		SubmittedAt: s.now().UTC(),
	}

	err := insertScript.Run(ctx, s.client,
		[]string{s.key(sub.ID), s.indexKey(), s.seqKey()},
		sub.ID, sub.Nickname, sub.ResultTitle, sub.SubmittedAt.Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return nil, domain.WriteFailure("insert", err)
	}

	s.announce(ctx, "insert")
	return &sub, nil
}

// List returns every record, newest first.
func (s *Store) List(ctx context.Context) ([]domain.Submission, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, domain.ReadFailure("list", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*backend.MapStringStringCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe backend.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.key(id))
		}
		return nil
	})
	if err != nil {
		return nil, domain.ReadFailure("list", err)
	}

	out := make([]domain.Submission, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Index entry outlived its hash; skip.
			continue
		}
		at, err := time.Parse(time.RFC3339Nano, fields["submitted_at"])
		if err != nil {
			return nil, domain.ReadFailure("list", fmt.Errorf("submission %s: %w", fields["id"], err))
		}
		out = append(out, domain.Submission{
			ID:          fields["id"],
			Nickname:    fields["nickname"],
			ResultTitle: fields["result_title"],
			SubmittedAt: at.UTC(),
		})
	}
	return out, nil
}

// CountByCategory reads only the result_title field of every record and tallies it.
func (s *Store) CountByCategory(ctx context.Context) (map[string]int, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, domain.ReadFailure("count", err)
	}

	cmds := make([]*backend.StringCmd, len(ids))
	if len(ids) > 0 {
		_, err = s.client.Pipelined(ctx, func(pipe backend.Pipeliner) error {
			for i, id := range ids {
				cmds[i] = pipe.HGet(ctx, s.key(id), "result_title")
			}
			return nil
		})
		if err != nil && err != backend.Nil {
			return nil, domain.ReadFailure("count", err)
		}
	}

	titles := make([]string, 0, len(ids))
	for _, cmd := range cmds {
		title, err := cmd.Result()
		if err == backend.Nil {
			continue
		}
		if err != nil {
			return nil, domain.ReadFailure("count", err)
		}
		titles = append(titles, title)
	}
	return domain.Tally(titles), nil
}

// DeleteAll removes every indexed record and the index itself atomically.
func (s *Store) DeleteAll(ctx context.Context) error {
	err := deleteAllScript.Run(ctx, s.client, []string{s.indexKey()}, s.prefix+"submission:").Err()
	if err != nil {
		return domain.WriteFailure("delete_all", err)
	}

	s.announce(ctx, "delete_all")
	return nil
}

// announce publishes a change notice. Subscribers only need the signal, so a
// failed publish does not fail the write that already succeeded.
func (s *Store) announce(ctx context.Context, op string) {
	_ = s.client.Publish(ctx, s.channel, op).Err()
}

// Watch subscribes to the change channel. The returned channel is closed when
// ctx is done or the subscription drops.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	sub := s.client.Subscribe(ctx, s.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, domain.ReadFailure("watch", err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out, nil
}
