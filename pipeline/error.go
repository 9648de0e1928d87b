/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package pipeline

import "github.com/nabbar/kestrel/errors"

const (
	ErrorInvalidEncoding errors.CodeError = iota + errors.MinPkgPipeline
	ErrorControlChar
	ErrorHandler
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorInvalidEncoding)
	errors.RegisterIdFctMessage(ErrorInvalidEncoding, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorInvalidEncoding:
		return "request path has invalid percent-encoding"
	case ErrorControlChar:
		return "request path contains a control character or encoded NUL"
	case ErrorHandler:
		return "pipeline handler returned an error"
	}

	return ""
}
