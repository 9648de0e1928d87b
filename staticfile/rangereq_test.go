/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package staticfile_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/kestrel/staticfile"
)

var _ = Describe("ParseRange", func() {
	const size = int64(1000)

	It("reports RangeAbsent when no header is set", func() {
		_, status, err := staticfile.ParseRange("", size)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(staticfile.RangeAbsent))
	})

	It("parses a closed range", func() {
		r, status, err := staticfile.ParseRange("bytes=100-199", size)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(staticfile.RangeSatisfiable))
		Expect(r.Start).To(Equal(int64(100)))
		Expect(r.End).To(Equal(int64(199)))
		Expect(r.Length()).To(Equal(int64(100)))
	})

	It("parses an open-ended range", func() {
		r, status, err := staticfile.ParseRange("bytes=900-", size)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(staticfile.RangeSatisfiable))
		Expect(r.Start).To(Equal(int64(900)))
		Expect(r.End).To(Equal(int64(999)))
	})

	It("parses a suffix range", func() {
		r, status, err := staticfile.ParseRange("bytes=-50", size)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(staticfile.RangeSatisfiable))
		Expect(r.Start).To(Equal(int64(950)))
		Expect(r.End).To(Equal(int64(999)))
	})

	It("clamps an end beyond the resource size", func() {
		r, status, err := staticfile.ParseRange("bytes=500-99999", size)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(staticfile.RangeSatisfiable))
		Expect(r.End).To(Equal(int64(999)))
	})

	It("reports unsatisfiable when start is beyond the resource size", func() {
		_, status, err := staticfile.ParseRange("bytes=5000-", size)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(staticfile.RangeUnsatisfiable))
	})

	It("reports unsatisfiable for any range on an empty file", func() {
		_, status, err := staticfile.ParseRange("bytes=0-10", 0)
		Expect(err).To(BeNil())
		Expect(status).To(Equal(staticfile.RangeUnsatisfiable))
	})

	It("rejects a malformed range", func() {
		_, _, err := staticfile.ParseRange("bytes=abc-def", size)
		Expect(err).ToNot(BeNil())
	})

	It("renders Content-Range headers", func() {
		Expect(staticfile.ContentRangeHeader(staticfile.ByteRange{Start: 0, End: 99}, 1000)).To(Equal("bytes 0-99/1000"))
		Expect(staticfile.UnsatisfiableRangeHeader(1000)).To(Equal("bytes */1000"))
	})
})
