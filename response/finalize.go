/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package response

import "net/http"

// Finalizer carries the per-server configuration applied to every
// outgoing response, regardless of which engine (proxy or static file)
// produced it.
type Finalizer struct {
	CustomHeaders map[string]string
	AltSvcPort    int
	EnableAltSvc  bool
}

// Apply merges custom headers, advertises Alt-Svc when HTTP/3 is
// enabled, and stamps the Server header, in that order.
func (f Finalizer) Apply(h http.Header, path string) {
	MergeHeaders(h, f.CustomHeaders, path)
	if f.EnableAltSvc && f.AltSvcPort > 0 {
		SetAltSvc(h, BuildAltSvc(f.AltSvcPort))
	}
	SetServerHeader(h)
}
