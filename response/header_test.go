/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package response_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/kestrel/response"
)

var _ = Describe("MergeHeaders", func() {
	It("sets an absent header", func() {
		h := http.Header{}
		response.MergeHeaders(h, map[string]string{"X-Frame-Options": "DENY"}, "/x")
		Expect(h.Get("X-Frame-Options")).To(Equal("DENY"))
	})

	It("never overwrites a header the handler already set", func() {
		h := http.Header{}
		h.Set("X-Custom", "handler-value")
		response.MergeHeaders(h, map[string]string{"X-Custom": "config-value"}, "/x")
		Expect(h.Get("X-Custom")).To(Equal("handler-value"))
	})

	It("substitutes {path} in the custom value", func() {
		h := http.Header{}
		response.MergeHeaders(h, map[string]string{"X-Origin-Path": "served:{path}"}, "/docs/page.html")
		Expect(h.Get("X-Origin-Path")).To(Equal("served:/docs/page.html"))
	})
})
