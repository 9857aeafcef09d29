package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Value int
}

func TestRefreshAppliesSnapshot(t *testing.T) {
	calls := 0
	p := NewPoller("test", time.Minute, func(ctx context.Context) (*snapshot, error) {
		calls++
		return &snapshot{Value: calls}, nil
	})

	assert.Nil(t, p.Latest(), "no snapshot before the first fetch")

	data, err := p.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, data.Value)
	assert.Equal(t, 1, p.Latest().Value)

	_, err = p.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, p.Latest().Value)
}

func TestRefreshKeepsPreviousSnapshotOnError(t *testing.T) {
	fail := false
	p := NewPoller("test", time.Minute, func(ctx context.Context) (*snapshot, error) {
		if fail {
			return nil, errors.New("db gone")
		}
		return &snapshot{Value: 7}, nil
	})

	_, err := p.Refresh(context.Background())
	require.NoError(t, err)

	fail = true
	_, err = p.Refresh(context.Background())
	assert.Error(t, err)
	require.NotNil(t, p.Latest())
	assert.Equal(t, 7, p.Latest().Value, "failed fetch leaves the old snapshot visible")
}

func TestRefreshLastIssuedWins(t *testing.T) {
	// The first-issued fetch stalls until the second one has applied; its
	// late response must not overwrite the newer snapshot.
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	call := 0

	p := NewPoller("test", time.Minute, func(ctx context.Context) (*snapshot, error) {
		call++
		if call == 1 {
			close(firstStarted)
			<-release
			return &snapshot{Value: 1}, nil
		}
		return &snapshot{Value: 2}, nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Refresh(context.Background())
	}()

	<-firstStarted
	_, err := p.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, p.Latest().Value)

	close(release)
	wg.Wait()
	assert.Equal(t, 2, p.Latest().Value, "stale response must lose to the later-issued fetch")
}

func TestRefreshReturnsOwnResultEvenWhenStale(t *testing.T) {
	// A stale manual refresh still hands its own data back to the caller,
	// it just does not become the shared snapshot.
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	call := 0

	p := NewPoller("test", time.Minute, func(ctx context.Context) (*snapshot, error) {
		call++
		if call == 1 {
			close(firstStarted)
			<-release
			return &snapshot{Value: 1}, nil
		}
		return &snapshot{Value: 2}, nil
	})

	results := make(chan *snapshot, 1)
	go func() {
		data, _ := p.Refresh(context.Background())
		results <- data
	}()

	<-firstStarted
	_, err := p.Refresh(context.Background())
	require.NoError(t, err)
	close(release)

	stale := <-results
	require.NotNil(t, stale)
	assert.Equal(t, 1, stale.Value)
	assert.Equal(t, 2, p.Latest().Value)
}

func TestStartStopLifecycle(t *testing.T) {
	p := NewPoller("test", time.Hour, func(ctx context.Context) (*snapshot, error) {
		return &snapshot{}, nil
	})

	assert.False(t, p.Running())
	require.NoError(t, p.Stop(), "stopping a never-started poller is fine")

	require.NoError(t, p.Start())
	assert.True(t, p.Running())
	require.NoError(t, p.Start(), "double start is a no-op")
	assert.True(t, p.Running())

	require.NoError(t, p.Stop())
	assert.False(t, p.Running())
	require.NoError(t, p.Stop(), "double stop is a no-op")
}

func TestStartRestartAfterStop(t *testing.T) {
	p := NewPoller("test", time.Hour, func(ctx context.Context) (*snapshot, error) {
		return &snapshot{}, nil
	})

	require.NoError(t, p.Start())
	require.NoError(t, p.Stop())
	require.NoError(t, p.Start())
	assert.True(t, p.Running())
	require.NoError(t, p.Stop())
}

func TestRegistryReturnsSamePollerPerKey(t *testing.T) {
	r := NewRegistry[snapshot](time.Minute)

	fetch := func(ctx context.Context) (*snapshot, error) { return &snapshot{}, nil }
	a := r.Get("tournament-1", fetch)
	b := r.Get("tournament-1", fetch)
	c := r.Get("tournament-2", fetch)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestRegistryStopAll(t *testing.T) {
	r := NewRegistry[snapshot](time.Hour)

	fetch := func(ctx context.Context) (*snapshot, error) { return &snapshot{}, nil }
	a := r.Get("tournament-1", fetch)
	b := r.Get("tournament-2", fetch)
	require.NoError(t, a.Start())
	require.NoError(t, b.Start())

	r.StopAll()
	assert.False(t, a.Running())
	assert.False(t, b.Running())
}
