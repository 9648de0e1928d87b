/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

// Package response applies the finalization steps common to every
// response regardless of which engine produced it: custom header
// merge, Alt-Svc advertisement, the Server identification header, and
// combined-log-format access/error log emission.
package response

import (
	"net/http"
	"strings"
)

// MergeHeaders applies custom into h without overwriting any header the
// handler already set, substituting the literal `{path}` in each custom
// value with path.
func MergeHeaders(h http.Header, custom map[string]string, path string) {
	for name, value := range custom {
		if h.Get(name) != "" {
			continue
		}
		h.Set(name, strings.ReplaceAll(value, "{path}", path))
	}
}
