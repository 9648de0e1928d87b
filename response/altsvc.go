/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package response

import (
	"fmt"
	"net/http"
	"strings"
)

// BuildAltSvc renders the `h3`/`h3-29` advertisement for port.
func BuildAltSvc(port int) string {
	return fmt.Sprintf(`h3=":%d", h3-29=":%d"`, port, port)
}

// SetAltSvc appends value to any existing Alt-Svc header on h, unless it
// already carries that exact value.
func SetAltSvc(h http.Header, value string) {
	if value == "" {
		return
	}
	existing := h.Get("Alt-Svc")
	if existing == "" {
		h.Set("Alt-Svc", value)
		return
	}
	if strings.Contains(existing, value) {
		return
	}
	h.Set("Alt-Svc", existing+", "+value)
}
