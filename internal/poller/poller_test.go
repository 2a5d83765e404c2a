package poller

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errBackendDown = errors.New("backend down")

// recorder collects applied updates for assertions.
type recorder struct {
	mu      sync.Mutex
	updates []Update[int]
	applied chan Update[int]
}

func newRecorder() *recorder {
	return &recorder{applied: make(chan Update[int], 32)}
}

func (r *recorder) apply(u Update[int]) {
	r.mu.Lock()
	r.updates = append(r.updates, u)
	r.mu.Unlock()
	r.applied <- u
}

func (r *recorder) snapshot() []Update[int] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Update[int], len(r.updates))
	copy(out, r.updates)
	return out
}

func (r *recorder) waitOne(t *testing.T) Update[int] {
	t.Helper()
	select {
	case u := <-r.applied:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for an update")
		return Update[int]{}
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestStartDispatchesImmediately(t *testing.T) {
	rec := newRecorder()
	p := New("test", Config{Interval: time.Hour},
		func(context.Context) (int, error) { return 7, nil },
		func() int { return -1 },
		rec.apply, quietLogger())

	p.Start(context.Background())
	defer p.Stop()

	u := rec.waitOne(t)
	if u.Snapshot != 7 || u.Provenance != Live {
		t.Errorf("first update = %+v, want live 7", u)
	}
	if u.Seq != 1 {
		t.Errorf("first seq = %d, want 1", u.Seq)
	}
}

func TestRestartReplacesLoop(t *testing.T) {
	var mu sync.Mutex
	fetches := 0
	rec := newRecorder()
	p := New("test", Config{Interval: 50 * time.Millisecond},
		func(context.Context) (int, error) {
			mu.Lock()
			fetches++
			mu.Unlock()
			return 1, nil
		},
		func() int { return -1 },
		rec.apply, quietLogger())

	p.Start(context.Background())
	p.Start(context.Background())
	defer p.Stop()

	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	got := fetches
	mu.Unlock()

	// Two immediate dispatches plus roughly ten ticks from a single
	// loop. A leaked second ticker would roughly double the tick count.
	if got > 17 {
		t.Errorf("fetch count = %d, suggests more than one active ticker", got)
	}
	if got < 5 {
		t.Errorf("fetch count = %d, loop does not appear to be ticking", got)
	}
}

func TestStaleResponseDropped(t *testing.T) {
	rec := newRecorder()
	release := make(chan struct{})

	// First fetch stalls until released; the second returns at once.
	var calls atomic.Int32
	p := New("test", Config{Timeout: time.Hour},
		func(ctx context.Context) (int, error) {
			if calls.Add(1) == 1 {
				<-release
				return 100, nil
			}
			return 200, nil
		},
		func() int { return -1 },
		rec.apply, quietLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.runOnce(context.Background(), 1)
	}()
	time.Sleep(20 * time.Millisecond)

	p.runOnce(context.Background(), 2)

	u := rec.waitOne(t)
	if u.Seq != 2 || u.Snapshot != 200 {
		t.Fatalf("first applied = %+v, want seq 2 value 200", u)
	}

	close(release)
	wg.Wait()

	if got := rec.snapshot(); len(got) != 1 {
		t.Errorf("stale response was applied: %+v", got)
	}
}

func TestTimeoutBoundsFetch(t *testing.T) {
	rec := newRecorder()
	p := New("test", Config{Timeout: 50 * time.Millisecond},
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		},
		func() int { return -1 },
		rec.apply, quietLogger())

	start := time.Now()
	p.runOnce(context.Background(), 1)
	elapsed := time.Since(start)

	u := rec.waitOne(t)
	if u.Provenance != Estimated || u.Snapshot != -1 {
		t.Errorf("update = %+v, want estimated fallback", u)
	}
	if u.Err == nil {
		t.Error("expected the fetch error to be carried on the update")
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("fetch took %v, want bounded near the 50ms timeout", elapsed)
	}
}

func TestFreshLiveDataPreferredOverSynthetic(t *testing.T) {
	rec := newRecorder()
	clock := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	var clockMu sync.Mutex
	now := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return clock
	}
	advance := func(d time.Duration) {
		clockMu.Lock()
		clock = clock.Add(d)
		clockMu.Unlock()
	}

	failing := false
	p := New("test", Config{FreshFor: 5 * time.Minute},
		func(context.Context) (int, error) {
			if failing {
				return 0, errBackendDown
			}
			return 42, nil
		},
		func() int { return -1 },
		rec.apply, quietLogger())
	p.now = now

	p.runOnce(context.Background(), 1)
	if u := rec.waitOne(t); u.Provenance != Live {
		t.Fatalf("seed update = %+v, want live", u)
	}

	// Failure inside the freshness window reuses the live value.
	failing = true
	advance(2 * time.Minute)
	p.runOnce(context.Background(), 2)
	u := rec.waitOne(t)
	if u.Provenance != Cached || u.Snapshot != 42 {
		t.Errorf("update = %+v, want cached 42", u)
	}
	if u.Err == nil {
		t.Error("cached update should carry the fetch error")
	}

	// Past the window, synthetic data takes over.
	advance(10 * time.Minute)
	p.runOnce(context.Background(), 3)
	if u := rec.waitOne(t); u.Provenance != Estimated || u.Snapshot != -1 {
		t.Errorf("update = %+v, want estimated fallback", u)
	}
}

func TestPauseSuppressesTicksAndResumeFetchesImmediately(t *testing.T) {
	var mu sync.Mutex
	fetches := 0
	rec := newRecorder()
	p := New("test", Config{Interval: 30 * time.Millisecond},
		func(context.Context) (int, error) {
			mu.Lock()
			fetches++
			mu.Unlock()
			return 1, nil
		},
		func() int { return -1 },
		rec.apply, quietLogger())

	p.Start(context.Background())
	defer p.Stop()

	rec.waitOne(t)
	rec.waitOne(t)

	p.Pause()
	time.Sleep(60 * time.Millisecond) // drain any in-flight tick
	mu.Lock()
	atPause := fetches
	mu.Unlock()

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	afterWait := fetches
	mu.Unlock()
	if afterWait != atPause {
		t.Errorf("fetches continued while paused: %d -> %d", atPause, afterWait)
	}

	p.Resume()
	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := fetches
		mu.Unlock()
		if n > afterWait {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("resume did not trigger an immediate fetch")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestResumeWithoutPauseIsNoOp(t *testing.T) {
	var mu sync.Mutex
	fetches := 0
	rec := newRecorder()
	p := New("test", Config{Interval: time.Hour},
		func(context.Context) (int, error) {
			mu.Lock()
			fetches++
			mu.Unlock()
			return 1, nil
		},
		func() int { return -1 },
		rec.apply, quietLogger())

	p.Start(context.Background())
	defer p.Stop()
	rec.waitOne(t)

	p.Resume()
	p.Resume()
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fetches != 1 {
		t.Errorf("fetches = %d, resume on a running poller should not dispatch", fetches)
	}
}

func TestStopPreventsLateApply(t *testing.T) {
	rec := newRecorder()
	started := make(chan struct{})
	p := New("test", Config{Interval: time.Hour, Timeout: time.Hour},
		func(ctx context.Context) (int, error) {
			select {
			case started <- struct{}{}:
			default:
			}
			time.Sleep(100 * time.Millisecond) // ignores cancellation
			return 99, nil
		},
		func() int { return -1 },
		rec.apply, quietLogger())

	p.Start(context.Background())
	<-started
	p.Stop()

	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("updates applied after stop: %+v", got)
	}
}

func TestStopDoesNotSubstituteFallback(t *testing.T) {
	rec := newRecorder()
	started := make(chan struct{})
	p := New("test", Config{Interval: time.Hour, Timeout: time.Hour},
		func(ctx context.Context) (int, error) {
			select {
			case started <- struct{}{}:
			default:
			}
			<-ctx.Done()
			return 0, ctx.Err()
		},
		func() int { return -1 },
		rec.apply, quietLogger())

	p.Start(context.Background())
	<-started
	p.Stop()

	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("fallback applied after stop: %+v", got)
	}
}

func TestApplyPanicDoesNotKillPoller(t *testing.T) {
	calls := make(chan uint64, 4)
	p := New("test", Config{},
		func(context.Context) (int, error) { return 1, nil },
		func() int { return -1 },
		func(u Update[int]) {
			calls <- u.Seq
			panic("renderer exploded")
		},
		quietLogger())

	p.runOnce(context.Background(), 1)
	p.runOnce(context.Background(), 2)

	if len(calls) != 2 {
		t.Errorf("apply calls = %d, want 2 despite panics", len(calls))
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.Interval != defaultInterval || cfg.Timeout != defaultTimeout || cfg.FreshFor != defaultFreshFor {
		t.Errorf("defaults = %+v", cfg)
	}

	custom := Config{Interval: time.Second, Timeout: time.Second, FreshFor: time.Second}.withDefaults()
	if custom.Interval != time.Second || custom.Timeout != time.Second || custom.FreshFor != time.Second {
		t.Errorf("explicit config overridden: %+v", custom)
	}
}

func TestProvenanceString(t *testing.T) {
	tests := []struct {
		p    Provenance
		want string
	}{
		{Live, "live"},
		{Cached, "cached"},
		{Estimated, "estimated"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Provenance(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}
