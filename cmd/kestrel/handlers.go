/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package main

import (
	"context"
	"net/http/httptest"

	"github.com/nabbar/kestrel/config"
	"github.com/nabbar/kestrel/errors"
	"github.com/nabbar/kestrel/pipeline"
	"github.com/nabbar/kestrel/proxy"
	"github.com/nabbar/kestrel/staticfile"
)

// staticFileStage serves files out of a per-configuration document root
// named by the "document_root" entry. Configurations without that entry
// pass through untouched.
type staticFileStage struct {
	handlers map[string]*staticfile.Handler
}

func newStaticFileStage() *staticFileStage {
	return &staticFileStage{handlers: make(map[string]*staticfile.Handler)}
}

func (s *staticFileStage) Name() string { return "staticfile" }

func (s *staticFileStage) Handle(_ context.Context, req *pipeline.Request, cfg config.ServerConfiguration) (pipeline.Result, errors.Error) {
	root := cfg.GetString("document_root", "")
	if root == "" {
		return pipeline.Result{Outcome: pipeline.PassThrough}, nil
	}

	h, ok := s.handlers[root]
	if !ok {
		resolver := staticfile.NewResolver(context.Background(), root, staticfile.DefaultPathSecurityConfig(), false, true)
		h = staticfile.NewHandler(resolver, nil)
		s.handlers[root] = h
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.Raw)

	return pipeline.Result{
		Outcome: pipeline.Complete,
		Status:  rec.Code,
		Header:  rec.Header(),
		Body:    rec.Body.Bytes(),
	}, nil
}

// proxyStage forwards the request to the backend named by the
// "proxy_backend" entry. Configurations without that entry pass through
// untouched.
type proxyStage struct {
	engine *proxy.Engine
}

func newProxyStage(engine *proxy.Engine) *proxyStage {
	return &proxyStage{engine: engine}
}

func (s *proxyStage) Name() string { return "proxy" }

func (s *proxyStage) Handle(_ context.Context, req *pipeline.Request, cfg config.ServerConfiguration) (pipeline.Result, errors.Error) {
	backendURL := cfg.GetString("proxy_backend", "")
	if backendURL == "" {
		return pipeline.Result{Outcome: pipeline.PassThrough}, nil
	}

	backend := proxy.Backend{URL: backendURL}

	proto := "http"
	if req.TLS {
		proto = "https"
	}

	resp, err := s.engine.Forward(req.Raw, []proxy.Backend{backend}, req.ClientIP, proto)
	if err != nil {
		return pipeline.Result{Outcome: pipeline.StatusOnly, Status: proxy.StatusForError(err)}, nil
	}
	defer resp.Body.Close()

	body := make([]byte, 0, resp.ContentLength)
	buf := make([]byte, 32*1024)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			body = append(body, buf[:n]...)
		}
		if rerr != nil {
			break
		}
	}

	return pipeline.Result{
		Outcome: pipeline.Complete,
		Status:  resp.StatusCode,
		Header:  resp.Header,
		Body:    body,
	}, nil
}
