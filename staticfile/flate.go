/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package staticfile

import (
	"io"

	"github.com/klauspost/compress/flate"
)

func newFlateWriter(w io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(w, flate.DefaultCompression)
}
