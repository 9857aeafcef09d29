package refresh

import (
	"sync"
	"time"
)

// Registry owns one poller per key (one per tournament dashboard) and tears
// all of them down on shutdown, so no orphaned refresh cycle outlives its
// view.
type Registry[T any] struct {
	interval time.Duration
	mu       sync.Mutex
	pollers  map[string]*Poller[T]
}

func NewRegistry[T any](interval time.Duration) *Registry[T] {
	return &Registry[T]{
		interval: interval,
		pollers:  make(map[string]*Poller[T]),
	}
}

// Get returns the poller for key, creating it with the given fetcher on
// first use. The fetcher of an existing poller is not replaced.
func (r *Registry[T]) Get(key string, fetch Fetcher[T]) *Poller[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pollers[key]
	if !ok {
		p = NewPoller(key, r.interval, fetch)
		r.pollers[key] = p
	}
	return p
}

// StopAll shuts down every poller. Called on server teardown.
func (r *Registry[T]) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pollers {
		p.Stop()
	}
}
