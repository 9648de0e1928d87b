/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

// Package pipeline resolves the effective configuration for a request,
// sanitizes its URL, drives it through an ordered module chain, and
// applies error-page substitution on the way back.
package pipeline

import (
	"context"
	"net/http"

	"github.com/nabbar/kestrel/config"
	"github.com/nabbar/kestrel/errors"
)

// Outcome is what a Handler decided to do with a Request.
type Outcome uint8

const (
	// Complete means the handler produced the full response itself.
	Complete Outcome = iota
	// StatusOnly means the handler wants an error page rendered for
	// Result.Status, triggering a chain re-entry.
	StatusOnly
	// PassThrough means the handler inspected or rewrote the request
	// and the chain should continue to the next handler.
	PassThrough
)

// Result is what a Handler returns for one Request.
type Result struct {
	Outcome Outcome

	Status int
	Header http.Header
	Body   []byte

	NewPath      string
	AuthIdentity string
	RemoteAddr   string
}

// Handler is one module-chain stage. Handlers are invoked in the fixed
// order they were registered in.
type Handler interface {
	Name() string
	Handle(ctx context.Context, req *Request, cfg config.ServerConfiguration) (Result, errors.Error)
}

// ResponseModifier is implemented by handlers that want a chance to
// rewrite the final response on the way back out, after some later
// handler completed it.
type ResponseModifier interface {
	ModifyResponse(req *Request, resp *Response)
}
