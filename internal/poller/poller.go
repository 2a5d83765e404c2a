// Package poller implements the resilient fetch loop behind every data
// feed: periodic fetches with a bounded per-request timeout, fallback
// substitution on failure, pause/resume, and sequence gating so a slow
// response can never overwrite a newer one.
package poller

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Provenance records where a snapshot came from.
type Provenance int

const (
	// Live means the snapshot was fetched from the backend this cycle.
	Live Provenance = iota
	// Cached means the fetch failed and the last live snapshot was
	// substituted because it was still within the freshness window.
	Cached
	// Estimated means the fetch failed and a synthetic snapshot was
	// substituted.
	Estimated
)

func (p Provenance) String() string {
	switch p {
	case Live:
		return "live"
	case Cached:
		return "cached"
	default:
		return "estimated"
	}
}

// Update is what a poller delivers to its apply function. Seq increases
// with every dispatched fetch; consumers receive updates already gated,
// in strictly increasing Seq order. Err carries the fetch failure when
// Provenance is Cached or Estimated.
type Update[S any] struct {
	Seq        uint64
	Snapshot   S
	Provenance Provenance
	FetchedAt  time.Time
	Err        error
}

// Config bounds a poller's timing.
type Config struct {
	// Interval between periodic fetches.
	Interval time.Duration
	// Timeout for a single fetch attempt.
	Timeout time.Duration
	// FreshFor is how long a previously fetched live snapshot may be
	// substituted on failure before synthetic data takes over.
	FreshFor time.Duration
}

const (
	defaultInterval = 30 * time.Second
	defaultTimeout  = 3 * time.Second
	defaultFreshFor = 5 * time.Minute
)

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = defaultInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.FreshFor <= 0 {
		c.FreshFor = defaultFreshFor
	}
	return c
}

// Poller drives one feed. All methods are safe for concurrent use.
type Poller[S any] struct {
	name     string
	cfg      Config
	fetch    func(context.Context) (S, error)
	fallback func() S
	apply    func(Update[S])
	logger   *log.Logger
	now      func() time.Time

	seq atomic.Uint64

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	paused  bool
	resume  chan struct{}
	wg      sync.WaitGroup

	applyMu     sync.Mutex
	stopped     bool
	lastApplied uint64
	hasGood     bool
	lastGood    S
	lastGoodAt  time.Time
}

// New creates a poller for one feed. fetch retrieves a live snapshot,
// fallback synthesizes one, and apply receives every gated update.
func New[S any](name string, cfg Config, fetch func(context.Context) (S, error), fallback func() S, apply func(Update[S]), logger *log.Logger) *Poller[S] {
	if logger == nil {
		logger = log.Default()
	}
	return &Poller[S]{
		name:     name,
		cfg:      cfg.withDefaults(),
		fetch:    fetch,
		fallback: fallback,
		apply:    apply,
		logger:   logger,
		now:      time.Now,
	}
}

// Start launches the poll loop and dispatches an immediate first fetch.
// Calling Start on a running poller replaces the loop; there is never
// more than one ticker alive.
func (p *Poller[S]) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running && p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true
	p.paused = false
	p.resume = make(chan struct{}, 1)
	resume := p.resume
	p.wg.Add(1)
	p.mu.Unlock()

	p.applyMu.Lock()
	p.stopped = false
	p.applyMu.Unlock()

	go p.loop(ctx, resume)
}

// Stop tears the loop down and guarantees no update is applied
// afterwards, including from fetches still in flight.
func (p *Poller[S]) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.running = false
	p.mu.Unlock()

	p.applyMu.Lock()
	p.stopped = true
	p.applyMu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// Pause suppresses periodic fetches without tearing down the loop.
func (p *Poller[S]) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

// Resume re-enables periodic fetches and triggers an immediate one so
// the consumer is not left staring at stale data until the next tick.
func (p *Poller[S]) Resume() {
	p.mu.Lock()
	wasPaused := p.paused
	p.paused = false
	resume := p.resume
	p.mu.Unlock()

	if wasPaused && resume != nil {
		select {
		case resume <- struct{}{}:
		default:
		}
	}
}

func (p *Poller[S]) isPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Poller[S]) loop(ctx context.Context, resume chan struct{}) {
	defer p.wg.Done()

	p.dispatch(ctx)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-resume:
			p.dispatch(ctx)
		case <-ticker.C:
			if p.isPaused() {
				continue
			}
			p.dispatch(ctx)
		}
	}
}

// dispatch assigns the sequence number before spawning the fetch so
// dispatch order and sequence order agree even when responses race.
func (p *Poller[S]) dispatch(ctx context.Context) {
	seq := p.seq.Add(1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.runOnce(ctx, seq)
	}()
}

func (p *Poller[S]) runOnce(ctx context.Context, seq uint64) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	snap, err := p.fetch(fetchCtx)
	fetchedAt := p.now()

	if err == nil {
		p.applyUpdate(Update[S]{Seq: seq, Snapshot: snap, Provenance: Live, FetchedAt: fetchedAt})
		return
	}

	// The poller was stopped mid-fetch; do not substitute a fallback.
	if ctx.Err() != nil {
		return
	}

	p.logger.Printf("[%s] fetch failed, substituting fallback: %v", p.name, err)

	p.applyMu.Lock()
	useCached := p.hasGood && fetchedAt.Sub(p.lastGoodAt) <= p.cfg.FreshFor
	cached := p.lastGood
	p.applyMu.Unlock()

	if useCached {
		p.applyUpdate(Update[S]{Seq: seq, Snapshot: cached, Provenance: Cached, FetchedAt: fetchedAt, Err: err})
		return
	}
	p.applyUpdate(Update[S]{Seq: seq, Snapshot: p.fallback(), Provenance: Estimated, FetchedAt: fetchedAt, Err: err})
}

// applyUpdate delivers an update unless the poller has stopped or a
// newer update was already applied.
func (p *Poller[S]) applyUpdate(u Update[S]) {
	p.applyMu.Lock()
	defer p.applyMu.Unlock()

	if p.stopped {
		return
	}
	if u.Seq <= p.lastApplied {
		p.logger.Printf("[%s] dropping stale update seq=%d (applied=%d)", p.name, u.Seq, p.lastApplied)
		return
	}
	p.lastApplied = u.Seq
	if u.Provenance == Live {
		p.lastGood = u.Snapshot
		p.lastGoodAt = u.FetchedAt
		p.hasGood = true
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Printf("[%s] apply panicked: %v", p.name, r)
		}
	}()
	p.apply(u)
}
