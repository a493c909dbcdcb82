package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("request did not settle")
	}
}

func TestFetcherLifecycle(t *testing.T) {
	var mu sync.Mutex
	var seen []Status
	f := NewFetcher(func(s State[int]) {
		mu.Lock()
		seen = append(seen, s.Status)
		mu.Unlock()
	})
	if st := f.State(); st.Status != StatusIdle {
		t.Fatalf("expected idle, got %v", st.Status)
	}

	release := make(chan struct{})
	done := f.Fetch(context.Background(), "a", func(ctx context.Context) (int, error) {
		<-release
		return 7, nil
	})
	if !f.State().Loading() {
		t.Fatal("expected loading while in flight")
	}
	close(release)
	wait(t, done)

	st := f.State()
	if st.Status != StatusSuccess || st.Data != 7 || st.Err != nil {
		t.Fatalf("unexpected state %+v", st)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != StatusLoading || seen[1] != StatusSuccess {
		t.Fatalf("unexpected transitions %v", seen)
	}
}

func TestFetcherError(t *testing.T) {
	f := NewFetcher[int](nil)
	boom := errors.New("boom")
	wait(t, f.Fetch(context.Background(), "a", func(context.Context) (int, error) { return 0, boom }))

	st := f.State()
	if st.Status != StatusError || !errors.Is(st.Err, boom) || st.Data != 0 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestFetcherDedupesSameKey(t *testing.T) {
	f := NewFetcher[int](nil)
	calls := 0
	fn := func(context.Context) (int, error) { calls++; return calls, nil }

	wait(t, f.Fetch(context.Background(), "a", fn))
	wait(t, f.Fetch(context.Background(), "a", fn))
	if calls != 1 {
		t.Fatalf("same key fetched %d times", calls)
	}

	wait(t, f.Reload(context.Background(), "a", fn))
	if calls != 2 || f.State().Data != 2 {
		t.Fatalf("reload: calls=%d state=%+v", calls, f.State())
	}
}

func TestFetcherStaleResponseNeverWins(t *testing.T) {
	f := NewFetcher[string](nil)

	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})
	var slowCtxErr error
	slow := f.Fetch(context.Background(), "slow", func(ctx context.Context) (string, error) {
		close(slowStarted)
		<-slowRelease
		slowCtxErr = ctx.Err()
		return "stale", nil
	})
	<-slowStarted

	fast := f.Fetch(context.Background(), "fast", func(context.Context) (string, error) {
		return "fresh", nil
	})
	wait(t, fast)

	close(slowRelease)
	wait(t, slow)

	st := f.State()
	if st.Key != "fast" || st.Data != "fresh" {
		t.Fatalf("stale response overwrote state: %+v", st)
	}
	if !errors.Is(slowCtxErr, context.Canceled) {
		t.Fatalf("superseded request was not cancelled: %v", slowCtxErr)
	}
}

func TestFetcherCancel(t *testing.T) {
	f := NewFetcher[int](nil)
	done := f.Fetch(context.Background(), "a", func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	f.Cancel()
	wait(t, done)

	if st := f.State(); st.Status != StatusIdle {
		t.Fatalf("expected idle after cancel, got %+v", st)
	}
}
