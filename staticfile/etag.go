/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package staticfile

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/nabbar/kestrel/lru"
)

type etagKey struct {
	path  string
	size  int64
	mtime int64
}

// ETagCache memoizes the 64-bit fingerprint behind each weak ETag, so
// repeated requests for the same unmodified file skip re-hashing.
// Capacity is fixed at 1000 entries.
type ETagCache struct {
	c *lru.Cache[etagKey, string]
}

func NewETagCache() *ETagCache {
	return &ETagCache{c: lru.New[etagKey, string](1000)}
}

// ETag returns the weak ETag for a resolved file, computing and caching
// it on first use.
func (e *ETagCache) ETag(path string, size, mtimeUnixSeconds int64) string {
	key := etagKey{path: path, size: size, mtime: mtimeUnixSeconds}
	if v, ok := e.c.Peek(key); ok {
		return v
	}

	v := computeETag(path, size, mtimeUnixSeconds)
	e.c.Put(key, v)
	return v
}

func computeETag(path string, size, mtimeUnixSeconds int64) string {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s|%d|%d", path, size, mtimeUnixSeconds)
	return fmt.Sprintf(`W/"%016x"`, h.Sum64())
}

// WithEncoding appends the compression-algorithm suffix to a base ETag,
// appending "-br", "-zstd", "-deflate" or "-gzip".
func WithEncoding(etag, encoding string) string {
	if encoding == "" {
		return etag
	}
	if !strings.HasSuffix(etag, `"`) {
		return etag
	}
	return etag[:len(etag)-1] + "-" + encoding + `"`
}
