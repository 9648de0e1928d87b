/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package pipeline

import (
	"net/http"
	"strings"
)

// NormalizeHost copies an HTTP/2 or HTTP/3 pseudo-authority into Host
// when net/http left it empty, concatenates repeated Cookie headers
// with "; ", and lowercases Host.
func NormalizeHost(r *http.Request) {
	if r.Host == "" && r.URL != nil && r.URL.Host != "" {
		r.Host = r.URL.Host
	}

	if cookies := r.Header["Cookie"]; len(cookies) > 1 {
		r.Header.Set("Cookie", strings.Join(cookies, "; "))
	}

	r.Host = strings.ToLower(r.Host)
}
