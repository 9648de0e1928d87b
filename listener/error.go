/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package listener

import "github.com/nabbar/kestrel/errors"

const (
	ErrorListenerBind errors.CodeError = iota + errors.MinPkgListener
	ErrorListenerAlreadyRunning
	ErrorListenerNotRunning
	ErrorPoolListen
	ErrorPacketBind
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorListenerBind)
	errors.RegisterIdFctMessage(ErrorListenerBind, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorListenerBind:
		return "failed to bind listener address"
	case ErrorListenerAlreadyRunning:
		return "listener is already running"
	case ErrorListenerNotRunning:
		return "listener is not running"
	case ErrorPoolListen:
		return "one or more listeners in the pool failed to start"
	case ErrorPacketBind:
		return "failed to bind packet (UDP/QUIC) address"
	}

	return ""
}
