// Package contexts owns the lifecycle of loaded analysis contexts: one
// cached context per normalized descriptor path, with get-or-load
// semantics and change-triggered invalidation.
package contexts

import (
	"context"
	"log/slog"
	"sync"
	"time"

	naverrors "codenav/internal/errors"
	"codenav/internal/paths"
	"codenav/internal/provider"
)

// ReleaseFunc marks the end of one operation against an acquired context.
// Must be called exactly once.
type ReleaseFunc func()

// Options configures a Cache.
type Options struct {
	// MaxContexts bounds retained contexts; zero means no bound.
	MaxContexts int
	// WatchEnabled starts a file watch per loaded context.
	WatchEnabled bool
	// WatchExtensions are the file extensions whose events invalidate a
	// context. Empty means paths.DefaultSourceExtensions.
	WatchExtensions []string
}

// Cache is the process-wide context cache. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	inflight map[string]*loadCall

	prov   provider.Provider
	opts   Options
	logger *slog.Logger
}

// entry is one retained context.
type entry struct {
	context        provider.Context
	descriptorPath string // normalized
	loadedAt       time.Time
	lastAccess     time.Time
	watch          *watch
	// activeOps tracks in-flight operations so invalidation can defer
	// the release until running queries complete.
	activeOps sync.WaitGroup
}

// loadCall is an in-flight load shared by concurrent first callers.
// The guard keeps at most one retained context per path: losers wait on
// done instead of loading a second context.
type loadCall struct {
	done chan struct{}
	err  error
}

// NewCache creates a context cache backed by the given provider.
func NewCache(prov provider.Provider, opts Options, logger *slog.Logger) *Cache {
	if len(opts.WatchExtensions) == 0 {
		opts.WatchExtensions = paths.DefaultSourceExtensions
	}
	return &Cache{
		entries:  make(map[string]*entry),
		inflight: make(map[string]*loadCall),
		prov:     prov,
		opts:     opts,
		logger:   logger,
	}
}

// GetContext returns the context for a descriptor path, loading it on
// first use. See Acquire for the operation-scoped variant.
func (c *Cache) GetContext(ctx context.Context, descriptorPath string) (provider.Context, error) {
	pctx, release, err := c.Acquire(ctx, descriptorPath)
	if err != nil {
		return nil, err
	}
	release()
	return pctx, nil
}

// Acquire returns the context for a descriptor path and registers an
// in-flight operation against it. The returned ReleaseFunc must be
// called when the operation finishes; invalidation of the entry waits
// for active operations before releasing the underlying context.
func (c *Cache) Acquire(ctx context.Context, descriptorPath string) (provider.Context, ReleaseFunc, error) {
	if !paths.IsSupportedDescriptor(descriptorPath) {
		return nil, nil, naverrors.NewUnsupportedDescriptorFormat(descriptorPath)
	}
	normalized, err := paths.Normalize(descriptorPath)
	if err != nil {
		return nil, nil, naverrors.NewProviderFailure("failed to normalize descriptor path", err)
	}
	key := paths.Key(normalized)

	for {
		c.mu.Lock()
		if e, ok := c.entries[key]; ok {
			e.lastAccess = time.Now()
			e.activeOps.Add(1)
			c.mu.Unlock()
			return e.context, releaseOnce(&e.activeOps), nil
		}
		if call, ok := c.inflight[key]; ok {
			c.mu.Unlock()
			select {
			case <-call.done:
			case <-ctx.Done():
				return nil, nil, naverrors.FromError(ctx.Err())
			}
			if call.err != nil {
				return nil, nil, call.err
			}
			// The winner registered an entry; loop to pick it up. The
			// entry may already be invalidated again, in which case the
			// loop degenerates into a fresh load.
			continue
		}

		call := &loadCall{done: make(chan struct{})}
		c.inflight[key] = call
		c.mu.Unlock()

		pctx, release, loadErr := c.load(ctx, normalized, key, call)
		if loadErr != nil {
			return nil, nil, loadErr
		}
		return pctx, release, nil
	}
}

// load performs the provider load for one in-flight call and installs
// the entry. Any failure cleans up fully: no half-initialized entry
// survives, and a context that lost an insert race is disposed.
func (c *Cache) load(ctx context.Context, normalized, key string, call *loadCall) (provider.Context, ReleaseFunc, error) {
	started := time.Now()
	pctx, err := c.prov.Load(ctx, normalized)

	c.mu.Lock()
	delete(c.inflight, key)
	if err != nil {
		if pctx != nil {
			pctx.Release()
		}
		call.err = naverrors.FromError(err)
		close(call.done)
		c.mu.Unlock()
		return nil, nil, call.err
	}

	e := &entry{
		context:        pctx,
		descriptorPath: normalized,
		loadedAt:       time.Now(),
		lastAccess:     time.Now(),
	}
	c.entries[key] = e
	e.activeOps.Add(1)
	evicted := c.evictOverCapacityLocked(key)
	close(call.done)
	c.mu.Unlock()

	for _, old := range evicted {
		c.disposeEntry(old)
	}

	if c.opts.WatchEnabled {
		if w, werr := newWatch(normalized, c.opts.WatchExtensions, func() {
			c.Invalidate(normalized)
		}, c.logger); werr != nil {
			c.logger.Warn("failed to start descriptor watch", "path", normalized, "error", werr)
		} else {
			c.mu.Lock()
			// The entry may have been invalidated while the watch started.
			if cur, ok := c.entries[key]; ok && cur == e {
				e.watch = w
			} else {
				w.stop()
			}
			c.mu.Unlock()
		}
	}

	c.logger.Info("context loaded",
		"path", normalized,
		"durationMs", time.Since(started).Milliseconds(),
	)
	return pctx, releaseOnce(&e.activeOps), nil
}

// Invalidate removes and disposes the cache entry for a descriptor
// path. Safe to call concurrently with Acquire on the same path; the
// underlying context is released only after in-flight operations end.
func (c *Cache) Invalidate(descriptorPath string) {
	normalized, err := paths.Normalize(descriptorPath)
	if err != nil {
		return
	}
	key := paths.Key(normalized)

	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	if !ok {
		return
	}

	c.logger.Info("context invalidated", "path", normalized)
	c.disposeEntry(e)
}

// Shutdown disposes every entry and clears the cache.
func (c *Cache) Shutdown() {
	c.mu.Lock()
	entries := make([]*entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	c.entries = make(map[string]*entry)
	c.mu.Unlock()

	for _, e := range entries {
		c.disposeEntry(e)
	}
}

// Stats describes the cache for status reporting.
type Stats struct {
	Loaded []EntryStats `json:"loaded"`
}

// EntryStats describes one cached context.
type EntryStats struct {
	DescriptorPath string    `json:"descriptorPath"`
	LoadedAt       time.Time `json:"loadedAt"`
	LastAccess     time.Time `json:"lastAccess"`
	Watching       bool      `json:"watching"`
}

// Stats returns a snapshot of the cache state.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{Loaded: make([]EntryStats, 0, len(c.entries))}
	for _, e := range c.entries {
		stats.Loaded = append(stats.Loaded, EntryStats{
			DescriptorPath: e.descriptorPath,
			LoadedAt:       e.loadedAt,
			LastAccess:     e.lastAccess,
			Watching:       e.watch != nil,
		})
	}
	return stats
}

// disposeEntry stops the entry's watch and releases its context once
// all in-flight operations complete.
func (c *Cache) disposeEntry(e *entry) {
	c.mu.Lock()
	w := e.watch
	e.watch = nil
	c.mu.Unlock()
	if w != nil {
		w.stop()
	}
	go func() {
		e.activeOps.Wait()
		e.context.Release()
	}()
}

// evictOverCapacityLocked evicts least-recently-accessed entries beyond
// MaxContexts, never the entry just inserted. Caller holds c.mu.
func (c *Cache) evictOverCapacityLocked(keep string) []*entry {
	if c.opts.MaxContexts <= 0 {
		return nil
	}
	var evicted []*entry
	for len(c.entries) > c.opts.MaxContexts {
		oldestKey := ""
		var oldest *entry
		for k, e := range c.entries {
			if k == keep {
				continue
			}
			if oldest == nil || e.lastAccess.Before(oldest.lastAccess) {
				oldestKey, oldest = k, e
			}
		}
		if oldest == nil {
			return evicted
		}
		delete(c.entries, oldestKey)
		evicted = append(evicted, oldest)
	}
	return evicted
}

// releaseOnce wraps a WaitGroup decrement so double release is harmless.
func releaseOnce(wg *sync.WaitGroup) ReleaseFunc {
	var once sync.Once
	return func() {
		once.Do(wg.Done)
	}
}
