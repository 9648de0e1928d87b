/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package proxy_test

import (
	"net/http"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/kestrel/proxy"
)

var _ = Describe("RequestTransform", func() {
	newReq := func(path, host string) *http.Request {
		return &http.Request{
			URL:    &url.URL{Path: path},
			Host:   host,
			Header: make(http.Header),
		}
	}

	It("strips a path prefix", func() {
		t := proxy.RequestTransform{StripPrefix: "/api"}
		r := newReq("/api/users", "example.com")
		t.Apply(r, "10.0.0.1", "https")
		Expect(r.URL.Path).To(Equal("/users"))
	})

	It("sets X-Forwarded-* headers and appends to an existing chain", func() {
		t := proxy.RequestTransform{}
		r := newReq("/", "example.com")
		r.Header.Set("X-Forwarded-For", "1.1.1.1")
		t.Apply(r, "2.2.2.2", "https")
		Expect(r.Header.Get("X-Forwarded-For")).To(Equal("1.1.1.1, 2.2.2.2"))
		Expect(r.Header.Get("X-Forwarded-Proto")).To(Equal("https"))
		Expect(r.Header.Get("X-Forwarded-Host")).To(Equal("example.com"))
	})

	It("quotes IPv6 literals in the Forwarded header", func() {
		t := proxy.RequestTransform{}
		r := newReq("/", "example.com")
		t.Apply(r, "::1", "http")
		Expect(r.Header.Get("Forwarded")).To(ContainSubstring(`for="[::1]"`))
	})

	It("applies add, replace and remove header ops in order", func() {
		t := proxy.RequestTransform{Headers: []proxy.HeaderOp{
			{Name: "X-Extra", Value: "one", Action: proxy.HeaderAdd},
			{Name: "X-Extra", Value: "two", Action: proxy.HeaderReplace},
			{Name: "X-Drop", Value: "x", Action: proxy.HeaderRemove},
		}}
		r := newReq("/", "example.com")
		r.Header.Set("X-Drop", "present")
		t.Apply(r, "", "http")
		Expect(r.Header.Values("X-Extra")).To(Equal([]string{"two"}))
		Expect(r.Header.Get("X-Drop")).To(Equal(""))
	})

	It("rewrites the Host header while preserving the original for X-Forwarded-Host", func() {
		t := proxy.RequestTransform{RewriteHostHeader: "backend.internal"}
		r := newReq("/", "example.com")
		t.Apply(r, "", "http")
		Expect(r.Host).To(Equal("backend.internal"))
		Expect(r.Header.Get("X-Forwarded-Host")).To(Equal("example.com"))
	})
})
