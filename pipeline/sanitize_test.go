/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/kestrel/pipeline"
)

var _ = Describe("SanitizeURL", func() {
	It("leaves an already-clean path untouched", func() {
		p, changed, err := pipeline.SanitizeURL("/a/b", false)
		Expect(err).ToNot(HaveOccurred())
		Expect(changed).To(BeFalse())
		Expect(p).To(Equal("/a/b"))
	})

	It("resolves .. without escaping the root", func() {
		p, changed, err := pipeline.SanitizeURL("/a/../../etc/passwd", false)
		Expect(err).ToNot(HaveOccurred())
		Expect(changed).To(BeTrue())
		Expect(p).To(Equal("/etc/passwd"))
	})

	It("collapses repeated slashes unless allowed", func() {
		p, _, err := pipeline.SanitizeURL("/a//b///c", false)
		Expect(err).ToNot(HaveOccurred())
		Expect(p).To(Equal("/a/b/c"))
	})

	It("preserves repeated slashes when explicitly allowed", func() {
		p, changed, err := pipeline.SanitizeURL("/a//b", true)
		Expect(err).ToNot(HaveOccurred())
		Expect(changed).To(BeFalse())
		Expect(p).To(Equal("/a//b"))
	})

	It("decodes percent-escapes", func() {
		p, _, err := pipeline.SanitizeURL("/a%20b", false)
		Expect(err).ToNot(HaveOccurred())
		Expect(p).To(Equal("/a b"))
	})

	It("rejects an encoded NUL byte", func() {
		_, _, err := pipeline.SanitizeURL("/a%00b", false)
		Expect(err).To(HaveOccurred())
	})

	It("rejects raw control characters", func() {
		_, _, err := pipeline.SanitizeURL("/a\x01b", false)
		Expect(err).To(HaveOccurred())
	})
})
