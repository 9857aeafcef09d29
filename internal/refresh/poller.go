package refresh

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Fetcher produces a fresh snapshot of view data. It must recompute from
// scratch on every call; the poller never mutates a previous snapshot.
type Fetcher[T any] func(ctx context.Context) (*T, error)

// Poller keeps a view's data warm with a periodic re-fetch and guards
// manual refreshes against stale responses: every fetch takes a sequence
// number when it is issued, and a response loses to any response from a
// later-issued fetch (last-issued-wins). A failed fetch is logged and the
// previous snapshot stays visible.
type Poller[T any] struct {
	name     string
	fetch    Fetcher[T]
	interval time.Duration

	issued  atomic.Uint64
	applied atomic.Uint64
	snap    atomic.Pointer[T]

	mu        sync.Mutex
	scheduler gocron.Scheduler
}

func NewPoller[T any](name string, interval time.Duration, fetch Fetcher[T]) *Poller[T] {
	return &Poller[T]{name: name, fetch: fetch, interval: interval}
}

// Latest returns the newest applied snapshot, or nil before the first
// successful fetch.
func (p *Poller[T]) Latest() *T {
	return p.snap.Load()
}

// Refresh issues a fetch and applies the result unless a later-issued fetch
// already landed. It returns whatever this fetch produced so a caller that
// triggered it manually can render it directly.
func (p *Poller[T]) Refresh(ctx context.Context) (*T, error) {
	seq := p.issued.Add(1)

	data, err := p.fetch(ctx)
	if err != nil {
		log.Error().Err(err).Str("poller", p.name).Msg("Refresh fetch failed; keeping previous snapshot")
		return nil, err
	}

	for {
		current := p.applied.Load()
		if seq <= current {
			// A newer fetch resolved first; drop this response.
			return data, nil
		}
		if p.applied.CompareAndSwap(current, seq) {
			p.snap.Store(data)
			return data, nil
		}
	}
}

// Start schedules the periodic refresh. Starting an already running poller
// is a no-op.
func (p *Poller[T]) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scheduler != nil {
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(p.interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), p.interval)
			defer cancel()
			p.Refresh(ctx)
		}),
		gocron.WithName(p.name),
	)
	if err != nil {
		scheduler.Shutdown()
		return err
	}

	scheduler.Start()
	p.scheduler = scheduler
	log.Info().Str("poller", p.name).Dur("interval", p.interval).Msg("Auto-refresh started")
	return nil
}

// Stop cancels the periodic refresh. A cycle already in flight finishes and
// may still apply; no new cycles are scheduled. Safe to call repeatedly and
// on a poller that was never started.
func (p *Poller[T]) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scheduler == nil {
		return nil
	}
	err := p.scheduler.Shutdown()
	p.scheduler = nil
	log.Info().Str("poller", p.name).Msg("Auto-refresh stopped")
	return err
}

// Running reports whether the periodic refresh is scheduled.
func (p *Poller[T]) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scheduler != nil
}
