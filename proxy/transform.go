/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package proxy

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// HeaderOp is one custom-header mutation.
type HeaderOp struct {
	Name   string
	Value  string
	Action HeaderAction
}

type HeaderAction uint8

const (
	HeaderAdd HeaderAction = iota
	HeaderReplace
	HeaderRemove
)

// RequestTransform carries the per-route rewrite rules applied before a
// request is sent upstream.
type RequestTransform struct {
	RewriteHostHeader string // empty keeps the original Host
	StripPrefix       string
	AddPrefix         string
	Headers           []HeaderOp
}

// Apply mutates req in place: URI rewrite, Host rewrite, forwarding
// headers and the custom header chain, in that order.
func (t RequestTransform) Apply(req *http.Request, clientIP string, proto string) {
	if t.StripPrefix != "" && strings.HasPrefix(req.URL.Path, t.StripPrefix) {
		req.URL.Path = "/" + strings.TrimPrefix(strings.TrimPrefix(req.URL.Path, t.StripPrefix), "/")
	}
	if t.AddPrefix != "" {
		req.URL.Path = strings.TrimSuffix(t.AddPrefix, "/") + "/" + strings.TrimPrefix(req.URL.Path, "/")
	}

	originalHost := req.Host
	if t.RewriteHostHeader != "" {
		req.Host = t.RewriteHostHeader
	}

	appendForwardedFor(req, clientIP)
	req.Header.Set("X-Forwarded-Proto", proto)
	req.Header.Set("X-Forwarded-Host", originalHost)
	appendForwarded(req, clientIP, proto, originalHost)

	for _, op := range t.Headers {
		switch op.Action {
		case HeaderAdd:
			req.Header.Add(op.Name, op.Value)
		case HeaderReplace:
			req.Header.Set(op.Name, op.Value)
		case HeaderRemove:
			req.Header.Del(op.Name)
		}
	}
}

func appendForwardedFor(req *http.Request, clientIP string) {
	if clientIP == "" {
		return
	}
	if prior := req.Header.Get("X-Forwarded-For"); prior != "" {
		req.Header.Set("X-Forwarded-For", prior+", "+clientIP)
	} else {
		req.Header.Set("X-Forwarded-For", clientIP)
	}
}

// appendForwarded reconstructs the RFC 7239 Forwarded header, quoting any
// token that is not a valid RFC 7230 token (IPv6 literals in particular).
func appendForwarded(req *http.Request, clientIP, proto, host string) {
	parts := make([]string, 0, 3)
	if clientIP != "" {
		parts = append(parts, "for="+forwardedNode(clientIP))
	}
	if host != "" {
		parts = append(parts, "host="+forwardedNode(host))
	}
	if proto != "" {
		parts = append(parts, "proto="+proto)
	}
	elem := strings.Join(parts, ";")

	if prior := req.Header.Get("Forwarded"); prior != "" {
		req.Header.Set("Forwarded", prior+", "+elem)
	} else {
		req.Header.Set("Forwarded", elem)
	}
}

func forwardedNode(s string) string {
	if ip := net.ParseIP(s); ip != nil && strings.Contains(s, ":") {
		return fmt.Sprintf("%q", "["+s+"]")
	}
	if isForwardedToken(s) {
		return s
	}
	return fmt.Sprintf("%q", s)
}

func isForwardedToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("!#$%&'*+-.^_`|~", r):
		default:
			return false
		}
	}
	return true
}
