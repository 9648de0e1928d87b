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

var _ = Describe("SetServerHeader", func() {
	It("overwrites any existing Server header", func() {
		h := http.Header{}
		h.Set("Server", "nginx")
		response.SetServerHeader(h)
		Expect(h.Get("Server")).To(Equal(response.ServerIdent))
	})
})
