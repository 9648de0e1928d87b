/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package staticfile

import "os"

// precompressedSuffix maps each on-the-fly encoding to the sibling-file
// extension checked before compressing on the fly.
var precompressedSuffix = map[Encoding]string{
	EncodingBrotli:  ".br",
	EncodingZstd:    ".zst",
	EncodingDeflate: ".deflate",
	EncodingGzip:    ".gz",
}

// FindPrecompressedSibling looks for a pre-built compressed variant of
// absPath matching enc. When found, it is served directly (with its real
// Content-Length) instead of compressing the original on the fly.
func FindPrecompressedSibling(absPath string, enc Encoding) (siblingPath string, info os.FileInfo, ok bool) {
	suffix, known := precompressedSuffix[enc]
	if !known {
		return "", nil, false
	}

	candidate := absPath + suffix
	fi, err := os.Stat(candidate)
	if err != nil || fi.IsDir() {
		return "", nil, false
	}
	return candidate, fi, true
}
