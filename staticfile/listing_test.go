/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package staticfile_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/kestrel/staticfile"
)

var _ = Describe("RenderListing", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o644)).To(Succeed())
		Expect(os.Mkdir(filepath.Join(dir, "sub"), 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644)).To(Succeed())
	})

	It("lists visible entries and hides dotfiles", func() {
		var buf bytes.Buffer
		Expect(staticfile.RenderListing(&buf, dir, "/")).To(Succeed())
		out := buf.String()
		Expect(out).To(ContainSubstring("readme.txt"))
		Expect(out).To(ContainSubstring(`href="sub/"`))
		Expect(out).ToNot(ContainSubstring(".hidden"))
	})

	It("escapes entry names containing HTML-sensitive characters", func() {
		Expect(os.WriteFile(filepath.Join(dir, "<script>.txt"), []byte("x"), 0o644)).To(Succeed())
		var buf bytes.Buffer
		Expect(staticfile.RenderListing(&buf, dir, "/")).To(Succeed())
		Expect(buf.String()).ToNot(ContainSubstring("<script>.txt"))
		Expect(buf.String()).To(ContainSubstring("&lt;script&gt;"))
	})
})
