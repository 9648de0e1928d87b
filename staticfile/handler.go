/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package staticfile

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nabbar/kestrel/errors"
)

// allowedMethods is the fixed method set the engine answers for.
const allowedMethods = "GET, HEAD, POST, OPTIONS"

// Handler serves files resolved through a Resolver, applying rate
// limiting, conditional/range requests and content-encoding negotiation.
type Handler struct {
	Resolver    *Resolver
	RateLimit   *RateLimiter
	ETags       *ETagCache
	ClientIP    func(*http.Request) string
	DisableGzip bool
}

func NewHandler(resolver *Resolver, rateLimit *RateLimiter) *Handler {
	return &Handler{
		Resolver:  resolver,
		RateLimit: rateLimit,
		ETags:     NewETagCache(),
		ClientIP:  defaultClientIP,
	}
}

func defaultClientIP(r *http.Request) string {
	if h, _, err := splitHostPort(r.RemoteAddr); err == nil {
		return h
	}
	return r.RemoteAddr
}

func splitHostPort(hostport string) (string, string, error) {
	idx := strings.LastIndex(hostport, ":")
	if idx < 0 {
		return hostport, "", nil
	}
	return hostport[:idx], hostport[idx+1:], nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientIP := h.ClientIP(r)
	if h.RateLimit != nil && !h.RateLimit.Allow(clientIP) {
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}

	switch r.Method {
	case http.MethodOptions:
		w.Header().Set("Allow", allowedMethods)
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet, http.MethodHead, http.MethodPost:
		// fall through
	default:
		w.Header().Set("Allow", allowedMethods)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	resolved, err := h.Resolver.Resolve(r.URL.Path)
	if err != nil {
		h.writeResolveError(w, err)
		return
	}

	if resolved.IsListing {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.Method == http.MethodHead {
			return
		}
		_ = RenderListing(w, resolved.AbsPath, r.URL.Path)
		return
	}

	h.serveFile(w, r, resolved)
}

func (h *Handler) writeResolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsCode(err, ErrorNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.IsCode(err, ErrorPathUnsafe), errors.IsCode(err, ErrorCanonicalize):
		w.WriteHeader(http.StatusForbidden)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *Handler) serveFile(w http.ResponseWriter, r *http.Request, res *Resolved) {
	size := res.Info.Size()
	mtime := res.Info.ModTime().Unix()
	ext := filepath.Ext(res.AbsPath)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	baseETag := h.ETags.ETag(res.AbsPath, size, mtime)

	enc := EncodingIdentity
	if !h.DisableGzip {
		enc = NegotiateEncoding(r.Header.Get("Accept-Encoding"), r.Header.Get("User-Agent"), ext, contentType, size)
	}

	servePath := res.AbsPath
	serveSize := size
	if enc != EncodingIdentity {
		if sibling, sinfo, ok := FindPrecompressedSibling(res.AbsPath, enc); ok {
			servePath = sibling
			serveSize = sinfo.Size()
		} else if r.Header.Get("Range") != "" {
			// Range offsets address the raw file; without a precompressed
			// sibling there is no way to honor both at once.
			enc = EncodingIdentity
		}
	}

	etag := WithEncoding(baseETag, string(enc))

	outcome, cerr := EvaluateConditional(r.Header, etag)
	if cerr != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	switch outcome {
	case ConditionalNotModified:
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	case ConditionalPreconditionFailed:
		w.WriteHeader(http.StatusPreconditionFailed)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Accept-Ranges", "bytes")
	if enc != EncodingIdentity {
		w.Header().Set("Content-Encoding", string(enc))
	}

	f, oerr := os.Open(servePath)
	if oerr != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	defer func() { _ = f.Close() }()

	rangeHeader := r.Header.Get("Range")
	byteRange, rstatus, rerr := ParseRange(rangeHeader, serveSize)
	if rerr != nil {
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	switch rstatus {
	case RangeUnsatisfiable:
		w.Header().Set("Content-Range", UnsatisfiableRangeHeader(serveSize))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return
	case RangeSatisfiable:
		w.Header().Set("Content-Range", ContentRangeHeader(byteRange, serveSize))
		w.Header().Set("Content-Length", strconv.FormatInt(byteRange.Length(), 10))
		w.WriteHeader(http.StatusPartialContent)

		if r.Method == http.MethodHead {
			return
		}
		if _, serr := f.Seek(byteRange.Start, io.SeekStart); serr != nil {
			return
		}
		_, _ = io.CopyN(w, f, byteRange.Length())
		return
	}

	if servePath != res.AbsPath || enc == EncodingIdentity {
		w.Header().Set("Content-Length", strconv.FormatInt(serveSize, 10))
	}
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}

	if servePath != res.AbsPath || enc == EncodingIdentity {
		_, _ = io.Copy(w, f)
		return
	}

	cw, cerr2 := NewCompressingWriter(w, enc)
	if cerr2 != nil {
		_, _ = io.Copy(w, f)
		return
	}
	_, _ = io.Copy(cw, f)
	_ = cw.Close()
}
