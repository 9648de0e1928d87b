/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package proxy

import "github.com/nabbar/kestrel/errors"

const (
	ErrorNoBackend errors.CodeError = iota + errors.MinPkgProxy
	// ErrorConnectFailed is the backend refusing the connection, the
	// host being unreachable, or the target not existing — conditions
	// the client can reasonably retry against another backend.
	ErrorConnectFailed
	ErrorHandshakeFailed
	ErrorTimeout
	ErrorProxyProtocolWrite
	ErrorPoolExhausted
	// ErrorDialFailed is the catch-all for a dial or bridge failure that
	// isn't a refusal, an unreachable host, or a missing target.
	ErrorDialFailed
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorNoBackend)
	errors.RegisterIdFctMessage(ErrorNoBackend, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorNoBackend:
		return "no backend configured"
	case ErrorConnectFailed:
		return "backend connection refused or unreachable"
	case ErrorHandshakeFailed:
		return "backend TLS or HTTP handshake failed"
	case ErrorTimeout:
		return "backend request timed out"
	case ErrorProxyProtocolWrite:
		return "failed writing PROXY protocol preamble"
	case ErrorPoolExhausted:
		return "connection pool global limit reached"
	case ErrorDialFailed:
		return "backend dial failed"
	}

	return ""
}
