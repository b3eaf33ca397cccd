package redis_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/quizflow/internal/testutils"
	"github.com/aretw0/quizflow/pkg/adapters/redis"
	"github.com/aretw0/quizflow/pkg/domain"
	"github.com/aretw0/quizflow/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Contract(t *testing.T) {
	_, client := testutils.StartRedis(t)
	ports.RunSubmissionStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_Notifier(t *testing.T) {
	_, client := testutils.StartRedis(t)
	ports.RunChangeNotifierContract(t, redis.NewFromClient(client))
}

func TestRedisStore_Layout(t *testing.T) {
	mr, client := testutils.StartRedis(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	sub, err := store.Insert(ctx, "Alice", "ソーシャルワーク")
	require.NoError(t, err)

	key := "test:submission:" + sub.ID
	assert.True(t, mr.Exists(key))
	assert.Equal(t, "Alice", mr.HGet(key, "nickname"))
	assert.Equal(t, "ソーシャルワーク", mr.HGet(key, "result_title"))

	members, err := mr.ZMembers("test:submissions")
	require.NoError(t, err)
	assert.Equal(t, []string{sub.ID}, members)

	require.NoError(t, store.DeleteAll(ctx))
	assert.False(t, mr.Exists(key))
	assert.False(t, mr.Exists("test:submissions"))
}

func TestRedisStore_SameTimestampOrdersByInsertion(t *testing.T) {
	_, client := testutils.StartRedis(t)
	fixed := time.Date(2025, 7, 5, 10, 0, 0, 0, time.UTC)
	store := redis.NewFromClient(client, redis.WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	// UUID members would sort ties at random; repeat to catch it.
	for i := 0; i < 20; i++ {
		require.NoError(t, store.DeleteAll(ctx))
		_, err := store.Insert(ctx, "first", "A")
		require.NoError(t, err)
		_, err = store.Insert(ctx, "second", "A")
		require.NoError(t, err)

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "second", list[0].Nickname, "run %d", i)
		assert.Equal(t, "first", list[1].Nickname, "run %d", i)
	}
}

func TestRedisStore_DeleteAllLeavesNoOrphans(t *testing.T) {
	mr, client := testutils.StartRedis(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				_, err := store.Insert(ctx, "Alice", "A")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			assert.NoError(t, store.DeleteAll(ctx))
		}
	}()
	wg.Wait()

	hashes := 0
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, "test:submission:") {
			hashes++
		}
	}
	members, _ := mr.ZMembers("test:submissions")
	assert.Equal(t, len(members), hashes)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, hashes)
}

func TestRedisStore_SharedAcrossInstances(t *testing.T) {
	_, client := testutils.StartRedis(t)
	ctx := context.Background()

	watcher := redis.NewFromClient(client)
	writer := redis.NewFromClient(client)

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch, err := watcher.Watch(wctx)
	require.NoError(t, err)

	_, err = writer.Insert(ctx, "Bob", "A")
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change notification from another store instance")
	}

	counts, err := watcher.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 1}, counts)
}

func TestRedisStore_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})
	defer client.Close()
	store := redis.NewFromClient(client)
	ctx := context.Background()
	mr.Close()

	_, err = store.Insert(ctx, "Alice", "A")
	assert.ErrorIs(t, err, domain.ErrStoreWrite)

	_, err = store.List(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreRead)

	_, err = store.CountByCategory(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreRead)

	_, err = store.Watch(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreRead)
}
