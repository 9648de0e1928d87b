/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/nabbar/kestrel/config"
	"github.com/nabbar/kestrel/errors"
	"github.com/nabbar/kestrel/logging"
	"github.com/nabbar/kestrel/response"
)

const errorStatusKey = "__kestrel_error_status"

// maxReentry bounds error-page re-entry so a misbehaving error page
// handler (itself returning StatusOnly) cannot recurse forever.
const maxReentry = 2

// Pipeline drives every accepted request through host normalization,
// configuration selection, URL sanitization and the module chain.
type Pipeline struct {
	Handlers  []Handler
	Finalizer response.Finalizer
	Log       *logging.Logger

	OnAccessLog func(response.AccessLogEntry)

	AllowRepeatedSlash bool
}

// Serve runs one request through the full pipeline and returns the
// response to write back to the connection.
func (p *Pipeline) Serve(ctx context.Context, r *http.Request, root *config.Root, clientIP string, tlsUsed bool, port int) *Response {
	NormalizeHost(r)

	if sanitized, changed, err := SanitizeURL(r.URL.Path, p.AllowRepeatedSlash); err != nil {
		return p.finish(r, newResponse(http.StatusBadRequest, nil, nil))
	} else if changed {
		r.URL.Path = sanitized
	}

	cfg := root.Select(clientIP, r.Host, port, r.URL.Path)

	req := &Request{Raw: r, ClientIP: clientIP, TLS: tlsUsed, ForcedHeader: make(http.Header)}

	resp, invoked, _ := p.runChain(ctx, req, cfg, 0)

	p.applyModifiers(invoked, req, resp)

	return p.finish(r, resp)
}

func (p *Pipeline) finish(r *http.Request, resp *Response) *Response {
	p.Finalizer.Apply(resp.Header, r.URL.Path)

	if p.OnAccessLog != nil {
		p.OnAccessLog(response.AccessLogEntry{
			ClientIP:  clientIPFromRequest(r),
			Time:      time.Now(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Proto:     r.Proto,
			Status:    resp.Status,
			Bytes:     int64(len(resp.Body)),
			Referer:   r.Referer(),
			UserAgent: r.UserAgent(),
		})
	}

	return resp
}

func clientIPFromRequest(r *http.Request) string {
	host := r.RemoteAddr
	if host == "" {
		return ""
	}
	return host
}

// runChain invokes handlers in order starting at the beginning of
// p.Handlers, returning the final response, the handlers actually
// invoked (for response-modifier unwind) and the re-entry depth used.
func (p *Pipeline) runChain(ctx context.Context, req *Request, cfg config.ServerConfiguration, reentries int) (*Response, []Handler, int) {
	invoked := make([]Handler, 0, len(p.Handlers))

	for _, h := range p.Handlers {
		invoked = append(invoked, h)

		res, err := h.Handle(ctx, req, cfg)
		if err != nil {
			p.logError(h, err)
			return newResponse(http.StatusInternalServerError, nil, nil), invoked, reentries
		}

		switch res.Outcome {
		case Complete:
			return newResponse(res.Status, res.Header, res.Body), invoked, reentries

		case StatusOnly:
			if reentries >= maxReentry {
				return newResponse(res.Status, nil, nil), invoked, reentries
			}

			req.ErrorStatus = res.Status
			errCfg := cfg.Set(errorStatusKey, config.Int(int64(res.Status)))
			resp, moreInvoked, n := p.runChain(ctx, req, errCfg, reentries+1)
			return resp, append(invoked, moreInvoked...), n

		case PassThrough:
			p.applyPassThrough(req, res)
		}
	}

	return newResponse(http.StatusNotFound, nil, nil), invoked, reentries
}

func (p *Pipeline) applyPassThrough(req *Request, res Result) {
	if res.NewPath != "" {
		req.Raw.URL.Path = res.NewPath
	}
	if res.AuthIdentity != "" {
		req.AuthIdentity = res.AuthIdentity
	}
	if res.RemoteAddr != "" {
		req.ClientIP = res.RemoteAddr
	}
	for k, v := range res.Header {
		req.ForcedHeader[k] = v
	}
}

// applyModifiers unwinds the invoked stack in reverse, so the first
// (outermost) handler gets the last word on the response.
func (p *Pipeline) applyModifiers(invoked []Handler, req *Request, resp *Response) {
	for i := len(invoked) - 1; i >= 0; i-- {
		if m, ok := invoked[i].(ResponseModifier); ok {
			m.ModifyResponse(req, resp)
		}
	}

	for k, v := range req.ForcedHeader {
		if resp.Header.Get(k) == "" {
			resp.Header[k] = v
		}
	}
}

func (p *Pipeline) logError(h Handler, err errors.Error) {
	if p.Log == nil {
		return
	}
	p.Log.Errorf("pipeline: handler %q failed: %s", h.Name(), err.Error())
}
