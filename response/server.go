/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package response

import "net/http"

// ServerIdent is the fixed identification string sent in the Server
// header of every response.
const ServerIdent = "kestrel"

// SetServerHeader overwrites the Server header unconditionally, unlike
// MergeHeaders's absent-only semantics: server identification is not
// configurable per-route.
func SetServerHeader(h http.Header) {
	h.Set("Server", ServerIdent)
}
