/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package staticfile

import (
	"net/http"
	"strings"

	"github.com/nabbar/kestrel/errors"
)

// ConditionalOutcome tells the caller what status (if any) should be
// written instead of the body.
type ConditionalOutcome uint8

const (
	ConditionalProceed ConditionalOutcome = iota
	ConditionalNotModified
	ConditionalPreconditionFailed
)

// EvaluateConditional applies If-None-Match then If-Match against etag,
// matching the teacher's header-parsing conventions (comma-separated
// lists, weak-comparison semantics already baked into the ETag's `W/`
// prefix).
func EvaluateConditional(h http.Header, etag string) (ConditionalOutcome, errors.Error) {
	if inm := h.Get("If-None-Match"); inm != "" {
		matched, err := etagListMatches(inm, etag)
		if err != nil {
			return ConditionalProceed, err
		}
		if matched {
			return ConditionalNotModified, nil
		}
	}

	if im := h.Get("If-Match"); im != "" {
		matched, err := etagListMatches(im, etag)
		if err != nil {
			return ConditionalProceed, err
		}
		if !matched {
			return ConditionalPreconditionFailed, nil
		}
	}

	return ConditionalProceed, nil
}

func etagListMatches(header, etag string) (bool, errors.Error) {
	if strings.TrimSpace(header) == "*" {
		return true, nil
	}

	for _, raw := range strings.Split(header, ",") {
		candidate := strings.TrimSpace(raw)
		if candidate == "" {
			continue
		}
		if !isWellFormedETag(candidate) {
			return false, ErrorBadETag.Error(nil)
		}
		if candidate == etag {
			return true, nil
		}
	}
	return false, nil
}

func isWellFormedETag(s string) bool {
	s = strings.TrimPrefix(s, "W/")
	return len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)
}
