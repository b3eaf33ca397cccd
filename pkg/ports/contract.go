package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSubmissionStoreContract runs a suite of tests verifying that a SubmissionStore
// implementation adheres to the interface contract. The store must start empty.
func RunSubmissionStoreContract(t *testing.T, store SubmissionStore) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		list, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)

		counts, err := store.CountByCategory(ctx)
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("Insert assigns id and timestamp", func(t *testing.T) {
		before := time.Now().Add(-time.Minute)
		sub, err := store.Insert(ctx, "Alice", "A")
		require.NoError(t, err)

		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, "Alice", sub.Nickname)
		assert.Equal(t, "A", sub.ResultTitle)
		assert.True(t, sub.SubmittedAt.After(before), "timestamp %v", sub.SubmittedAt)

		require.NoError(t, store.DeleteAll(ctx))
	})

	t.Run("List newest first", func(t *testing.T) {
		first, err := store.Insert(ctx, "first", "A")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		second, err := store.Insert(ctx, "second", "B")
		require.NoError(t, err)

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)
		assert.Equal(t, "second", list[0].Nickname)
		assert.Equal(t, "B", list[0].ResultTitle)
		assert.True(t, list[0].SubmittedAt.Equal(second.SubmittedAt))

		require.NoError(t, store.DeleteAll(ctx))
	})

	t.Run("CountByCategory", func(t *testing.T) {
		for _, title := range []string{"A", "A", "B"} {
			_, err := store.Insert(ctx, "n", title)
			require.NoError(t, err)
		}

		counts, err := store.CountByCategory(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"A": 2, "B": 1}, counts)

		require.NoError(t, store.DeleteAll(ctx))
	})

	t.Run("DeleteAll empties the store", func(t *testing.T) {
		_, err := store.Insert(ctx, "n", "A")
		require.NoError(t, err)

		require.NoError(t, store.DeleteAll(ctx))

		list, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)

		counts, err := store.CountByCategory(ctx)
		require.NoError(t, err)
		assert.Empty(t, counts)

		// Idempotent on an empty store.
		assert.NoError(t, store.DeleteAll(ctx))
	})

	t.Run("Duplicates are accepted", func(t *testing.T) {
		a, err := store.Insert(ctx, "same", "A")
		require.NoError(t, err)
		b, err := store.Insert(ctx, "same", "A")
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)

		require.NoError(t, store.DeleteAll(ctx))
	})
}

// RunChangeNotifierContract verifies that inserts and deletes on store are signalled by notifier.
func RunChangeNotifierContract(t *testing.T, store WatchableStore) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := store.Watch(ctx)
	require.NoError(t, err)

	expectSignal := func(what string) {
		t.Helper()
		select {
		case _, ok := <-ch:
			require.True(t, ok, "watch channel closed before %s", what)
		case <-time.After(2 * time.Second):
			t.Fatalf("no change notification after %s", what)
		}
	}

	_, err = store.Insert(ctx, "watcher", "A")
	require.NoError(t, err)
	expectSignal("insert")

	require.NoError(t, store.DeleteAll(ctx))
	expectSignal("delete")

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond, "watch channel closes after cancel")
}
