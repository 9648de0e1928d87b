/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package staticfile

import (
	"bufio"
	"compress/gzip"
	"io"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	kzstd "github.com/klauspost/compress/zstd"
)

// Encoding identifies an on-the-fly compression algorithm, in the
// preference order used when negotiating Accept-Encoding.
type Encoding string

const (
	EncodingIdentity Encoding = ""
	EncodingBrotli   Encoding = "br"
	EncodingZstd     Encoding = "zstd"
	EncodingDeflate  Encoding = "deflate"
	EncodingGzip     Encoding = "gzip"
)

// encodingPreference lists supported encodings from most to least
// preferred: br > zstd > deflate > gzip.
var encodingPreference = []Encoding{EncodingBrotli, EncodingZstd, EncodingDeflate, EncodingGzip}

// minCompressibleSize skips compression for tiny bodies, where the
// framing overhead outweighs any saving.
const minCompressibleSize = 256

// precompressedExtensions already hold entropy-dense data; compressing
// them again wastes CPU for no benefit.
var precompressedExtensions = map[string]bool{
	".gz": true, ".br": true, ".zst": true, ".zip": true,
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
	".mp4": true, ".mp3": true, ".woff": true, ".woff2": true,
}

type acceptEntry struct {
	name Encoding
	q    float64
}

// NegotiateEncoding picks the best on-the-fly encoding for a response,
// honoring Accept-Encoding q-values, a minimum body size, an extension
// denylist for already-compressed formats, and known broken clients that
// must never receive compressed text/html (Netscape 4.06-4.08 and
// Netscape-4.x-branded w3m builds).
func NegotiateEncoding(acceptEncoding, userAgent, ext, contentType string, size int64) Encoding {
	if size <= minCompressibleSize {
		return EncodingIdentity
	}
	if precompressedExtensions[strings.ToLower(ext)] {
		return EncodingIdentity
	}
	if strings.HasPrefix(contentType, "text/html") && isBrokenCompressionClient(userAgent) {
		return EncodingIdentity
	}

	accepted := parseAcceptEncoding(acceptEncoding)
	if len(accepted) == 0 {
		return EncodingIdentity
	}

	for _, want := range encodingPreference {
		if q, ok := accepted[want]; ok && q > 0 {
			return want
		}
	}
	return EncodingIdentity
}

func isBrokenCompressionClient(userAgent string) bool {
	if userAgent == "" {
		return false
	}
	for _, marker := range []string{"Mozilla/4.06", "Mozilla/4.07", "Mozilla/4.08", "Netscape-4."} {
		if strings.Contains(userAgent, marker) {
			return true
		}
	}
	return false
}

func parseAcceptEncoding(header string) map[Encoding]float64 {
	out := make(map[Encoding]float64)
	if header == "" {
		return out
	}
	for _, tok := range strings.Split(header, ",") {
		e := acceptEntry{q: 1.0}
		parts := strings.Split(strings.TrimSpace(tok), ";")
		name := strings.TrimSpace(parts[0])
		if name == "" {
			continue
		}
		for _, p := range parts[1:] {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "q=") {
				if v, err := strconv.ParseFloat(strings.TrimPrefix(p, "q="), 64); err == nil {
					e.q = v
				}
			}
		}
		e.name = Encoding(name)
		out[e.name] = e.q
	}
	return out
}

// outputBufferSize is the fixed on-the-fly compression output buffer.
const outputBufferSize = 16 * 1024

// NewCompressingWriter wraps w with the chosen encoding's writer, tuned to
// the fixed parameters (brotli quality 4 / window 17 /
// block 18; zstd window size 1<<17, default encoder level).
func NewCompressingWriter(w io.Writer, enc Encoding) (io.WriteCloser, error) {
	bw := bufio.NewWriterSize(w, outputBufferSize)

	switch enc {
	case EncodingBrotli:
		return &flushingWriteCloser{buf: bw, wc: brotli.NewWriterOptions(bw, brotli.WriterOptions{
			Quality: 4,
			LGWin:   17,
			LGBlock: 18,
		})}, nil
	case EncodingZstd:
		zw, err := kzstd.NewWriter(bw,
			kzstd.WithWindowSize(1<<17),
			kzstd.WithEncoderLevel(kzstd.SpeedDefault),
		)
		if err != nil {
			return nil, err
		}
		return &flushingWriteCloser{buf: bw, wc: zw}, nil
	case EncodingDeflate:
		fw, err := newFlateWriter(bw)
		if err != nil {
			return nil, err
		}
		return &flushingWriteCloser{buf: bw, wc: fw}, nil
	case EncodingGzip:
		return &flushingWriteCloser{buf: bw, wc: gzip.NewWriter(bw)}, nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// flushingWriteCloser closes the inner compressor then flushes the
// buffered writer, so the last compressed block actually reaches the
// client.
type flushingWriteCloser struct {
	buf *bufio.Writer
	wc  io.WriteCloser
}

func (f *flushingWriteCloser) Write(p []byte) (int, error) { return f.wc.Write(p) }

func (f *flushingWriteCloser) Close() error {
	if err := f.wc.Close(); err != nil {
		return err
	}
	return f.buf.Flush()
}
