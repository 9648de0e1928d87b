/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package proxy

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	liberr "github.com/nabbar/kestrel/errors"
)

// TLSVerifyMode selects how a backend's certificate is validated.
type TLSVerifyMode uint8

const (
	// TLSVerifyNative trusts the host's root CA bundle.
	TLSVerifyNative TLSVerifyMode = iota
	// TLSVerifySkip disables verification entirely.
	TLSVerifySkip
	// TLSVerifyBundle trusts only an explicitly supplied CA bundle.
	TLSVerifyBundle
)

// DialConfig parameterizes how the proxy connects to a single backend.
type DialConfig struct {
	Verify     TLSVerifyMode
	CABundle   *x509.CertPool
	ServerName string
	Timeout    time.Duration
}

// DialBackend opens a TCP (and, for https/wss schemes, TLS) connection to
// backend per the configured verification mode, falling back to the
// supplied bundle only when TLSVerifyBundle is selected: native root store,
// no verification, or an explicit fallback bundle.
func DialBackend(ctx context.Context, network, addr string, tlsEnabled bool, cfg DialConfig) (net.Conn, liberr.Error) {
	d := net.Dialer{Timeout: cfg.Timeout}

	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, classifyDialError(err)
	}

	if !tlsEnabled {
		return conn, nil
	}

	tlsCfg := &tls.Config{ServerName: cfg.ServerName}
	switch cfg.Verify {
	case TLSVerifySkip:
		tlsCfg.InsecureSkipVerify = true
	case TLSVerifyBundle:
		tlsCfg.RootCAs = cfg.CABundle
	case TLSVerifyNative:
		// zero value: crypto/tls consults the OS root store.
	}

	tlsConn := tls.Client(conn, tlsCfg)
	if cfg.Timeout > 0 {
		_ = tlsConn.SetDeadline(time.Now().Add(cfg.Timeout))
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, ErrorHandshakeFailed.Error(err)
	}
	if cfg.Timeout > 0 {
		_ = tlsConn.SetDeadline(time.Time{})
	}

	return tlsConn, nil
}

// classifyDialError maps a raw dial error to one of the proxy's
// CodeErrors so callers can translate it to a 502/503/504 response.
// Connection refusal, an unreachable host, or a missing target (e.g. a
// stale unix socket path) are distinguished from every other dial
// failure because they map to a different status in StatusForError.
func classifyDialError(err error) liberr.Error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTimeout.Error(err)
	}
	if isConnectFailure(err) {
		return ErrorConnectFailed.Error(err)
	}
	return ErrorDialFailed.Error(err)
}

// isConnectFailure reports whether err is a connection refusal, an
// unreachable host, or a missing target (ECONNREFUSED, EHOSTUNREACH,
// ENOENT, or a DNS lookup failure).
func isConnectFailure(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, os.ErrNotExist) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// StatusForError maps a proxy CodeError to the HTTP status the gateway
// returns to the client.
func StatusForError(err liberr.Error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case err.HasCode(ErrorTimeout):
		return http.StatusGatewayTimeout
	case err.HasCode(ErrorConnectFailed), err.HasCode(ErrorPoolExhausted), err.HasCode(ErrorNoBackend):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
