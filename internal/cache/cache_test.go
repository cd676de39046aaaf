package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixClock pins the package clock to a known instant and returns a func
// that advances it.
func fixClock(t *testing.T) func(time.Duration) {
	t.Helper()
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return current }
	t.Cleanup(func() { timeNow = time.Now })
	return func(d time.Duration) { current = current.Add(d) }
}

func countingFetch(value any) (*int, FetchFunc) {
	calls := 0
	return &calls, func(ctx context.Context) (any, error) {
		calls++
		return value, nil
	}
}

func TestGetOrFetch_CachesWithinWindow(t *testing.T) {
	advance := fixClock(t)
	s := New()
	calls, fetch := countingFetch("schema")

	v, err := s.GetOrFetch(context.Background(), "schema:123", fetch)
	require.NoError(t, err)
	assert.Equal(t, "schema", v)
	assert.Equal(t, 1, *calls)

	advance(4 * time.Minute)

	v, err = s.GetOrFetch(context.Background(), "schema:123", fetch)
	require.NoError(t, err)
	assert.Equal(t, "schema", v)
	assert.Equal(t, 1, *calls, "a read inside the window must not re-fetch")
}

func TestGetOrFetch_RefetchesAfterWindow(t *testing.T) {
	advance := fixClock(t)
	s := New()
	calls, fetch := countingFetch("schema")

	_, err := s.GetOrFetch(context.Background(), "schema:123", fetch)
	require.NoError(t, err)

	advance(TTL)

	_, err = s.GetOrFetch(context.Background(), "schema:123", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, *calls, "a read at the window edge must re-fetch")
}

func TestGetOrFetch_KeysAreIndependent(t *testing.T) {
	fixClock(t)
	s := New()
	schemaCalls, schemaFetch := countingFetch("schema")
	itemsCalls, itemsFetch := countingFetch("items")

	_, err := s.GetOrFetch(context.Background(), "schema:123", schemaFetch)
	require.NoError(t, err)
	_, err = s.GetOrFetch(context.Background(), "items:123", itemsFetch)
	require.NoError(t, err)

	assert.Equal(t, 1, *schemaCalls)
	assert.Equal(t, 1, *itemsCalls)
	assert.Equal(t, 2, s.Len())
}

func TestGetOrFetch_ErrorsNotCached(t *testing.T) {
	fixClock(t)
	s := New()
	calls := 0
	boom := errors.New("upstream down")
	fetch := func(ctx context.Context) (any, error) {
		calls++
		if calls < 3 {
			return nil, boom
		}
		return "recovered", nil
	}

	for i := 0; i < 2; i++ {
		_, err := s.GetOrFetch(context.Background(), "items:123", fetch)
		require.ErrorIs(t, err, boom)
	}
	assert.Equal(t, 0, s.Len(), "errors must not be cached")

	v, err := s.GetOrFetch(context.Background(), "items:123", fetch)
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, 3, calls)
}

func TestInvalidate(t *testing.T) {
	fixClock(t)
	s := New()
	calls, fetch := countingFetch("v")

	_, err := s.GetOrFetch(context.Background(), "schema:123", fetch)
	require.NoError(t, err)
	_, err = s.GetOrFetch(context.Background(), "items:123", fetch)
	require.NoError(t, err)

	s.Invalidate("schema:123")

	_, err = s.GetOrFetch(context.Background(), "schema:123", fetch)
	require.NoError(t, err)
	assert.Equal(t, 3, *calls, "an invalidated key must re-fetch")

	_, err = s.GetOrFetch(context.Background(), "items:123", fetch)
	require.NoError(t, err)
	assert.Equal(t, 3, *calls, "untouched keys stay cached")
}

func TestInvalidateAll(t *testing.T) {
	fixClock(t)
	s := New()
	calls, fetch := countingFetch("v")

	_, err := s.GetOrFetch(context.Background(), "schema:123", fetch)
	require.NoError(t, err)
	_, err = s.GetOrFetch(context.Background(), "items:123", fetch)
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	s.InvalidateAll()
	assert.Equal(t, 0, s.Len())

	_, err = s.GetOrFetch(context.Background(), "schema:123", fetch)
	require.NoError(t, err)
	assert.Equal(t, 3, *calls, "a read after a full clear must re-fetch")
}

func TestTyped(t *testing.T) {
	fixClock(t)
	s := New()

	type schema struct{ Name string }

	got, err := Typed(context.Background(), s, "schema:123", func(ctx context.Context) (*schema, error) {
		return &schema{Name: "Tasks"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Tasks", got.Name)

	// Same key read back through the wrong type.
	_, err = Typed(context.Background(), s, "schema:123", func(ctx context.Context) (string, error) {
		return "", nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema:123")
}

func TestGetOrFetch_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.GetOrFetch(context.Background(), "items:123", func(ctx context.Context) (any, error) {
				return "items", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "items", v)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, s.Len())
}
