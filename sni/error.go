/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package sni

import "github.com/nabbar/kestrel/errors"

const (
	ErrorNoMatch errors.CodeError = iota + errors.MinPkgSNI
	ErrorOCSPNoResponder
	ErrorOCSPRequest
	ErrorOCSPFetch
	ErrorOCSPParse
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorNoMatch)
	errors.RegisterIdFctMessage(ErrorNoMatch, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorNoMatch:
		return "no certificate matches the requested server name"
	case ErrorOCSPNoResponder:
		return "leaf certificate has no OCSP responder URL"
	case ErrorOCSPRequest:
		return "failed to build OCSP request"
	case ErrorOCSPFetch:
		return "failed to fetch OCSP response"
	case ErrorOCSPParse:
		return "failed to parse OCSP response"
	}

	return ""
}
