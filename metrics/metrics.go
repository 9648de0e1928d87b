/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

// Package metrics exposes the Prometheus instrumentation surface for the
// reverse-proxy and static-file engines, grounded on the pack's use of
// github.com/prometheus/client_golang for process- and request-level
// counters.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every collector this binary registers, so a caller
// only has to thread one value through the proxy and static-file
// engines instead of package-level globals.
type Registry struct {
	BackendSelected   *prometheus.CounterVec
	BackendUnhealthy  *prometheus.CounterVec
	ConnectionReused  *prometheus.CounterVec
	StaticCacheHit    prometheus.Counter
	StaticCacheMiss   prometheus.Counter
	StaticBytesServed prometheus.Counter
}

// NewRegistry builds and registers every collector against reg. Passing
// prometheus.NewRegistry() keeps this isolated from the default
// registry, which is convenient for tests.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		BackendSelected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kestrel",
			Subsystem: "proxy",
			Name:      "backend_selected_total",
			Help:      "Number of times a backend was chosen by the load balancer.",
		}, []string{"backend"}),
		BackendUnhealthy: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kestrel",
			Subsystem: "proxy",
			Name:      "backend_unhealthy_total",
			Help:      "Number of times a backend was excluded from selection as unhealthy.",
		}, []string{"backend"}),
		ConnectionReused: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kestrel",
			Subsystem: "proxy",
			Name:      "connection_total",
			Help:      "Outbound backend connections, labeled by whether a pooled connection was reused.",
		}, []string{"reused"}),
		StaticCacheHit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kestrel",
			Subsystem: "static",
			Name:      "cache_hit_total",
			Help:      "Static file metadata cache hits.",
		}),
		StaticCacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kestrel",
			Subsystem: "static",
			Name:      "cache_miss_total",
			Help:      "Static file metadata cache misses.",
		}),
		StaticBytesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kestrel",
			Subsystem: "static",
			Name:      "bytes_served_total",
			Help:      "Bytes served from the static file engine.",
		}),
	}

	reg.MustRegister(r.BackendSelected, r.BackendUnhealthy, r.ConnectionReused,
		r.StaticCacheHit, r.StaticCacheMiss, r.StaticBytesServed)

	return r
}

func (r *Registry) RecordSelected(backend string) {
	if r == nil {
		return
	}
	r.BackendSelected.WithLabelValues(backend).Inc()
}

func (r *Registry) RecordUnhealthy(backend string) {
	if r == nil {
		return
	}
	r.BackendUnhealthy.WithLabelValues(backend).Inc()
}

func (r *Registry) RecordConnection(reused bool) {
	if r == nil {
		return
	}
	label := "false"
	if reused {
		label = "true"
	}
	r.ConnectionReused.WithLabelValues(label).Inc()
}
