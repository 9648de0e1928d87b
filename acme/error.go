/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package acme

import "github.com/nabbar/kestrel/errors"

const (
	ErrorNoHosts errors.CodeError = iota + errors.MinPkgACME
	ErrorCacheGet
	ErrorCachePut
	ErrorCacheDelete
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorNoHosts)
	errors.RegisterIdFctMessage(ErrorNoHosts, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorNoHosts:
		return "no hosts given for automatic certificate issuance"
	case ErrorCacheGet:
		return "failed to read ACME cache entry"
	case ErrorCachePut:
		return "failed to write ACME cache entry"
	case ErrorCacheDelete:
		return "failed to delete ACME cache entry"
	}

	return ""
}
