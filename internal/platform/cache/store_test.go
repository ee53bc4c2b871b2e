package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errLoad = errors.New("load failed")

func frozenStore[V any](ttl time.Duration, opts ...Option) (*Store[V], *time.Time) {
	s := New[V](ttl, opts...)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestStore_GetOrLoadCoalesces(t *testing.T) {
	t.Parallel()

	store := New[string](time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			v, err := store.GetOrLoad(context.Background(), "profile:user-1", func(context.Context) (string, error) {
				calls.Add(1)
				<-release
				return "value", nil
			})
			if err != nil || v != "value" {
				t.Errorf("unexpected load result %q err=%v", v, err)
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	store := New[int](time.Minute)
	ctx := context.Background()

	if _, err := store.GetOrLoad(ctx, "n", func(context.Context) (int, error) { return 0, errLoad }); !errors.Is(err, errLoad) {
		t.Fatalf("expected loader error, got %v", err)
	}
	got, err := store.GetOrLoad(ctx, "n", func(context.Context) (int, error) { return 42, nil })
	if err != nil || got != 42 {
		t.Fatalf("expected fresh load, got %d err=%v", got, err)
	}
	if _, err := store.GetOrLoad(ctx, "n", nil); err == nil {
		t.Fatalf("expected error for nil loader")
	}
}

func TestStore_EntryExpires(t *testing.T) {
	t.Parallel()

	store, now := frozenStore[int](time.Second)
	store.Set("k", 1)
	if _, ok := store.Get("k"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	*now = now.Add(2 * time.Second)
	if _, ok := store.Get("k"); ok {
		t.Fatalf("expected miss after expiry")
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be dropped, len=%d", store.Len())
	}
}

func TestStore_SetUntilCapsAtDeadline(t *testing.T) {
	t.Parallel()

	store, now := frozenStore[string](time.Hour)
	store.SetUntil("short", "a", now.Add(30*time.Second))
	store.SetUntil("gone", "b", now.Add(-time.Second))

	if store.Len() != 1 {
		t.Fatalf("past deadline must not be stored, len=%d", store.Len())
	}
	*now = now.Add(time.Minute)
	if _, ok := store.Get("short"); ok {
		t.Fatalf("entry must not outlive its deadline")
	}
}

func TestStore_MaxEntries(t *testing.T) {
	t.Parallel()

	store, now := frozenStore[string](time.Minute, WithMaxEntries(2))
	store.SetUntil("old", "x", now.Add(time.Second))
	store.Set("a", "a")
	*now = now.Add(2 * time.Second)

	store.Set("b", "b")
	if _, ok := store.Get("a"); !ok {
		t.Fatalf("sweep should drop the expired entry before a live one")
	}

	store.Set("c", "c")
	if store.Len() != 2 {
		t.Fatalf("expected capacity to hold at 2, got %d", store.Len())
	}
	if _, ok := store.Get("c"); !ok {
		t.Fatalf("latest entry must be kept")
	}
}

func TestStore_DisabledByZeroTTL(t *testing.T) {
	t.Parallel()

	store := New[int](0)
	store.Set("k", 1)
	if store.Len() != 0 {
		t.Fatalf("zero TTL store must not keep entries")
	}

	var calls int
	for i := 0; i < 2; i++ {
		_, _ = store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) {
			calls++
			return calls, nil
		})
	}
	if calls != 2 {
		t.Fatalf("expected every call to load, got %d", calls)
	}
}

func TestStore_DeleteAndClear(t *testing.T) {
	t.Parallel()

	store := New[int](time.Minute)
	store.Set("a", 1)
	store.Set("b", 2)
	store.Set("c", 3)

	store.Delete("a", "missing")
	if store.Len() != 2 {
		t.Fatalf("expected two entries, got %d", store.Len())
	}
	store.Clear()
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}
