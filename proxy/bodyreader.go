/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package proxy

import (
	"bytes"
	"io"
	"strconv"
)

func newBodyReadCloser(b []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(b))
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
