/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package proxy

import (
	"io"
	"net/http"
	"net/url"

	"github.com/nabbar/kestrel/errors"
)

// Recorder is the subset of metrics.Registry the engine needs, kept as
// an interface so tests can stub it without pulling in Prometheus.
type Recorder interface {
	RecordSelected(backend string)
	RecordUnhealthy(backend string)
	RecordConnection(reused bool)
}

// Engine is the reverse-proxy's single entry point: it selects a
// backend, transforms the request, forwards it and classifies the
// result, tying together every sub-component of the proxy package.
type Engine struct {
	Selector     *Selector
	Health       *FailedBackendCache
	Tracker      *ConnectionTrackMap
	Transform    RequestTransform
	Transports   map[string]http.RoundTripper // backend key -> transport, reused across requests
	BindClientIP bool
	Metrics      Recorder
}

func NewEngine(algo Algorithm) *Engine {
	tracker := NewConnectionTrackMap()
	return &Engine{
		Selector:   NewSelector(algo, tracker, nil),
		Tracker:    tracker,
		Transports: make(map[string]http.RoundTripper),
	}
}

func (e *Engine) transportFor(b Backend) http.RoundTripper {
	if rt, ok := e.Transports[b.key()]; ok {
		return rt
	}
	rt := &http.Transport{
		IdleConnTimeout: b.KeepAliveIdleTimer,
	}
	e.Transports[b.key()] = rt
	return rt
}

// Forward selects one backend among candidates, transforms req and sends
// it through that backend's reused transport, retrying the remaining
// candidates on connect/handshake/timeout failure. It returns the
// backend's response or a classified error once every candidate has
// been exhausted.
func (e *Engine) Forward(req *http.Request, candidates []Backend, clientIP, proto string) (*http.Response, errors.Error) {
	remaining := append([]Backend(nil), candidates...)

	var lastErr errors.Error
	for len(remaining) > 0 {
		b, ok := e.Selector.Select(remaining)
		if !ok {
			break
		}
		remaining = removeBackend(remaining, b)

		if e.Metrics != nil {
			e.Metrics.RecordSelected(b.key())
		}

		release := e.Tracker.Begin(b)
		resp, err := e.sendToBackend(req, b, clientIP, proto)
		if err != nil {
			release()
			if e.Health != nil {
				e.Health.RecordFailure(b)
			}
			if e.Metrics != nil {
				e.Metrics.RecordUnhealthy(b.key())
			}
			lastErr = err
			continue
		}

		resp.Body = &releasingBody{ReadCloser: resp.Body, release: release}
		return resp, nil
	}

	if lastErr == nil {
		lastErr = ErrorNoBackend.Error(nil)
	}
	return nil, lastErr
}

func (e *Engine) sendToBackend(req *http.Request, b Backend, clientIP, proto string) (*http.Response, errors.Error) {
	backendURL, uerr := url.Parse(b.URL)
	if uerr != nil {
		return nil, ErrorNoBackend.Error(uerr)
	}

	out := req.Clone(req.Context())
	out.URL.Scheme = backendURL.Scheme
	out.URL.Host = backendURL.Host
	out.RequestURI = ""

	e.Transform.Apply(out, clientIP, proto)

	rt := e.transportFor(b)
	resp, err := rt.RoundTrip(out)
	if err != nil {
		return nil, classifyDialError(err)
	}
	return resp, nil
}

func removeBackend(list []Backend, b Backend) []Backend {
	out := make([]Backend, 0, len(list))
	removed := false
	for _, c := range list {
		if !removed && c.key() == b.key() {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out
}

// releasingBody wraps a backend response body so the in-flight tracker
// decrements exactly once the client finishes (or abandons) reading it.
type releasingBody struct {
	io.ReadCloser
	release func()
	closed  bool
}

func (r *releasingBody) Close() error {
	if !r.closed {
		r.closed = true
		r.release()
	}
	if r.ReadCloser == nil {
		return nil
	}
	return r.ReadCloser.Close()
}
