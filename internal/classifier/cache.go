package classifier

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// LoadPolicy selects what happens when the model artifact is missing at
// first load. The two source services diverge deliberately: the image
// service aborts startup, the sentiment service degrades to a baseline.
type LoadPolicy int

const (
	// FailFast treats a missing artifact as fatal. serve refuses to start.
	FailFast LoadPolicy = iota
	// FallbackToBaseline substitutes the baseline loader when the primary
	// artifact is missing, logs a warning, and keeps serving traffic.
	// Any other load failure (corrupt artifact, runtime init) stays fatal.
	FallbackToBaseline
)

// LoadFunc produces a model handle. Loading is heavyweight; the cache
// guarantees it runs at most once per process lifetime.
type LoadFunc[M any] func(ctx context.Context) (M, error)

// Cache is the process-wide holder of the loaded model handle. The first
// Get performs the load under a mutex with a double check, so concurrent
// first requests trigger exactly one load and all callers observe the same
// handle. After a successful load the handle is read-only and Get is a
// lock-free fast path. A failed load is sticky: the error is returned to
// every subsequent caller and the load is never retried.
type Cache[M any] struct {
	policy   LoadPolicy
	load     LoadFunc[M]
	fallback LoadFunc[M]
	log      zerolog.Logger

	ready atomic.Bool
	loads atomic.Uint64

	mu    sync.Mutex
	done  bool
	model M
	err   error
}

// NewCache constructs a cache around the given loader. fallback may be nil
// unless policy is FallbackToBaseline.
func NewCache[M any](policy LoadPolicy, load, fallback LoadFunc[M], log zerolog.Logger) *Cache[M] {
	return &Cache[M]{policy: policy, load: load, fallback: fallback, log: log}
}

// Get returns the cached model handle, loading it on first use.
func (c *Cache[M]) Get(ctx context.Context) (M, error) {
	if c.ready.Load() {
		return c.model, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return c.model, c.err
	}

	c.loads.Add(1)
	modelLoadsTotal.Inc()
	m, err := c.load(ctx)
	if err != nil && c.policy == FallbackToBaseline && IsArtifactMissing(err) && c.fallback != nil {
		c.log.Warn().Err(err).Msg("model artifact missing, substituting baseline model")
		m, err = c.fallback(ctx)
	}
	if err != nil {
		c.err = ErrModelUnavailable(err)
		c.done = true
		c.log.Error().Err(err).Msg("model load failed")
		return c.model, c.err
	}

	c.model = m
	c.done = true
	c.ready.Store(true)
	c.log.Info().Msg("model loaded")
	return c.model, nil
}

// Ensure forces the load eagerly. Used by the image variant, where a
// missing or corrupt artifact must abort startup before the listener opens.
func (c *Cache[M]) Ensure(ctx context.Context) error {
	_, err := c.Get(ctx)
	return err
}

// Ready reports whether a model handle is live. Never triggers a load.
func (c *Cache[M]) Ready() bool { return c.ready.Load() }

// LoadCount returns how many times the loader ran. Exactly 1 after any
// number of Get calls, concurrent or not.
func (c *Cache[M]) LoadCount() uint64 { return c.loads.Load() }
