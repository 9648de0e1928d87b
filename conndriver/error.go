/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package conndriver

import "github.com/nabbar/kestrel/errors"

const (
	ErrorHandshake errors.CodeError = iota + errors.MinPkgConnDriver
	ErrorHijackUnsupported
	ErrorHijackFailed
	ErrorServe
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorHandshake)
	errors.RegisterIdFctMessage(ErrorHandshake, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorHandshake:
		return "TLS handshake failed"
	case ErrorHijackUnsupported:
		return "response writer does not support hijacking"
	case ErrorHijackFailed:
		return "failed to hijack connection"
	case ErrorServe:
		return "failed to serve connection"
	}

	return ""
}
