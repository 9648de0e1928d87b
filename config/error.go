/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package config

import "github.com/nabbar/kestrel/errors"

const (
	ErrorLoad errors.CodeError = iota + errors.MinPkgConfig
	ErrorDecode
	ErrorValidate
	ErrorMissingRoot
)

var isCodeError = false

func IsCodeError() bool {
	return isCodeError
}

func init() {
	isCodeError = errors.ExistInMapMessage(ErrorLoad)
	errors.RegisterIdFctMessage(ErrorLoad, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case errors.UNK_ERROR:
		return ""
	case ErrorLoad:
		return "cannot load configuration source"
	case ErrorDecode:
		return "cannot decode configuration into the expected model"
	case ErrorValidate:
		return "configuration failed validation"
	case ErrorMissingRoot:
		return "configuration source has no document root configured"
	}

	return ""
}
