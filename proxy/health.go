/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package proxy

import (
	"context"
	"sync"
	"time"

	libcache "github.com/nabbar/kestrel/cache"
)

// FailedBackendCache is a mapping (backend-url, unix-path) ->
// (fail-count, expires-at), built on the teacher's generic TTL cache
// (cache.Cache) the same way nabbar-golib/cache is used for any
// short-lived, self-expiring bookkeeping map.
type FailedBackendCache struct {
	window   time.Duration
	maxFails int
	mu       sync.Mutex
	counts   map[string]int
	c        libcache.Cache[string, int]
}

// NewFailedBackendCache builds a cache with the given sliding window
// (default 5s) and max-fails threshold (default 3).
func NewFailedBackendCache(ctx context.Context, window time.Duration, maxFails int) *FailedBackendCache {
	if window <= 0 {
		window = 5 * time.Second
	}
	if maxFails <= 0 {
		maxFails = 3
	}
	return &FailedBackendCache{
		window:   window,
		maxFails: maxFails,
		counts:   make(map[string]int),
		c:        libcache.New[string, int](ctx, window),
	}
}

// RecordFailure increments the fail counter for a backend, resetting its
// TTL window.
func (f *FailedBackendCache) RecordFailure(b Backend) {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := b.key()
	n, _, ok := f.c.Load(k)
	if !ok {
		n = 0
	}
	n++
	f.c.Store(k, n)
	f.counts[k] = n
}

// IsHealthy reports whether the backend's current fail count is at or
// below the configured threshold, i.e. whether selection may use it.
func (f *FailedBackendCache) IsHealthy(b Backend) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, _, ok := f.c.Load(b.key())
	if !ok {
		return true
	}
	return n <= f.maxFails
}

// FailCount returns the current fail count for the backend, 0 if none
// recorded or expired.
func (f *FailedBackendCache) FailCount(b Backend) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, _, ok := f.c.Load(b.key())
	if !ok {
		return 0
	}
	return n
}

// inFlightMarker is a reference-counted handle: the number of live
// clones equals the number of in-flight requests to a backend.
type inFlightMarker struct {
	count *int32
}

// ConnectionTrackMap is a mapping (backend-url, unix-path) ->
// reference-counted marker, used by LeastConnections and
// TwoRandomChoices selection.
type ConnectionTrackMap struct {
	mu      sync.Mutex
	markers map[string]*inFlightMarker
}

func NewConnectionTrackMap() *ConnectionTrackMap {
	return &ConnectionTrackMap{markers: make(map[string]*inFlightMarker)}
}

func (m *ConnectionTrackMap) markerFor(b Backend) *inFlightMarker {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := b.key()
	mk, ok := m.markers[k]
	if !ok {
		var zero int32
		mk = &inFlightMarker{count: &zero}
		m.markers[k] = mk
	}
	return mk
}

// Begin increments the in-flight count for a backend and returns a
// release function to call when the response body is fully consumed.
func (m *ConnectionTrackMap) Begin(b Backend) (release func()) {
	mk := m.markerFor(b)
	atomicAdd(mk.count, 1)
	var once sync.Once
	return func() {
		once.Do(func() { atomicAdd(mk.count, -1) })
	}
}

// InFlight returns the current in-flight request count for a backend.
func (m *ConnectionTrackMap) InFlight(b Backend) int {
	mk := m.markerFor(b)
	return int(atomicLoad(mk.count))
}
