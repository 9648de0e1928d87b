/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package pipeline

import "net/http"

// Request is the mutable state threaded through the module chain.
type Request struct {
	Raw *http.Request

	ClientIP string
	TLS      bool

	AuthIdentity string
	ForcedHeader http.Header
	ErrorStatus  int
}

// Response is the value the module chain produces, still subject to
// response modifiers and finalization.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func newResponse(status int, header http.Header, body []byte) *Response {
	if header == nil {
		header = make(http.Header)
	}
	return &Response{Status: status, Header: header, Body: body}
}
