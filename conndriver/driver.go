/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

// Package conndriver drives one already-accepted connection to
// completion: it performs the TLS handshake when needed, negotiates
// HTTP/1.1 versus HTTP/2 off the ALPN result, and serves HTTP/3 over a
// QUIC packet connection handed over by the listener package.
package conndriver

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// Driver serves HTTP over accepted connections with the timeouts and
// handler a kestrel instance was configured with.
type Driver struct {
	handler http.Handler
	h2      *http2.Server

	readTimeout       time.Duration
	readHeaderTimeout time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
}

// Option configures a Driver at construction time.
type Option func(*Driver)

func WithReadTimeout(d time.Duration) Option       { return func(o *Driver) { o.readTimeout = d } }
func WithReadHeaderTimeout(d time.Duration) Option { return func(o *Driver) { o.readHeaderTimeout = d } }
func WithWriteTimeout(d time.Duration) Option      { return func(o *Driver) { o.writeTimeout = d } }
func WithIdleTimeout(d time.Duration) Option       { return func(o *Driver) { o.idleTimeout = d } }

// New builds a Driver serving handler.
func New(handler http.Handler, opts ...Option) *Driver {
	d := &Driver{handler: handler, h2: &http2.Server{}}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ServeConn drives one accepted connection until it is closed. For a
// *tls.Conn it completes the handshake first and picks HTTP/2 when ALPN
// negotiated "h2", otherwise HTTP/1.1.
func (d *Driver) ServeConn(conn net.Conn) error {
	if tc, ok := conn.(*tls.Conn); ok {
		if err := tc.Handshake(); err != nil {
			_ = conn.Close()
			return ErrorHandshake.Error(err)
		}

		if tc.ConnectionState().NegotiatedProtocol == http2.NextProtoTLS {
			d.h2.ServeConn(conn, &http2.ServeConnOpts{Handler: d.handler})
			return nil
		}
	}

	return d.serveHTTP1(conn)
}

func (d *Driver) serveHTTP1(conn net.Conn) error {
	ln := newOneConnListener(conn)

	srv := &http.Server{
		Handler:           d.handler,
		ReadTimeout:       d.readTimeout,
		ReadHeaderTimeout: d.readHeaderTimeout,
		WriteTimeout:      d.writeTimeout,
		IdleTimeout:       d.idleTimeout,
		ConnState: func(_ net.Conn, state http.ConnState) {
			if state == http.StateClosed || state == http.StateHijacked {
				_ = ln.Close()
			}
		},
	}

	if err := srv.Serve(ln); err != nil && !isClosedErr(err) {
		return ErrorServe.Error(err)
	}
	return nil
}

func isClosedErr(err error) bool {
	return err == http.ErrServerClosed || err == errOneConnClosed
}
