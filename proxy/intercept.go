/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package proxy

import "net/http"

// ErrorPageProvider resolves a custom error page body for a given status
// code, returning ok=false to let the backend's original body pass
// through unmodified.
type ErrorPageProvider interface {
	ErrorPage(status int) (body []byte, contentType string, ok bool)
}

// InterceptBackendError rewrites resp in place with a configured error
// page when its status is >=400 and a page is registered for it. It
// never intercepts 1xx/2xx/3xx responses.
func InterceptBackendError(resp *http.Response, pages ErrorPageProvider) {
	if resp == nil || pages == nil || resp.StatusCode < 400 {
		return
	}

	body, contentType, ok := pages.ErrorPage(resp.StatusCode)
	if !ok {
		return
	}

	if resp.Body != nil {
		_ = resp.Body.Close()
	}
	resp.Body = newBodyReadCloser(body)
	resp.ContentLength = int64(len(body))
	resp.Header.Set("Content-Length", itoa(len(body)))
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	} else {
		resp.Header.Del("Content-Type")
	}
}
