/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package staticfile

import "github.com/nabbar/kestrel/errors"

const (
	ErrorPathUnsafe errors.CodeError = iota + errors.MinPkgStaticFile
	ErrorNotFound
	ErrorCanonicalize
	ErrorBadETag
	ErrorBadRange
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorPathUnsafe)
	errors.RegisterIdFctMessage(ErrorPathUnsafe, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorPathUnsafe:
		return "request path rejected by path security policy"
	case ErrorNotFound:
		return "requested path does not exist under document root"
	case ErrorCanonicalize:
		return "failed to canonicalize resolved path"
	case ErrorBadETag:
		return "malformed If-Match/If-None-Match header"
	case ErrorBadRange:
		return "malformed Range header"
	}

	return ""
}
