/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package staticfile

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	libcache "github.com/nabbar/kestrel/cache"
	"github.com/nabbar/kestrel/errors"
)

// DefaultIndexFiles is tried, in order, when a resolved path is a
// directory.
var DefaultIndexFiles = []string{"index.html", "index.htm", "index.xhtml"}

// Resolved is the outcome of resolving a request path under a document
// root: either a regular file ready to be served, a directory to list,
// or neither.
type Resolved struct {
	AbsPath   string
	Info      os.FileInfo
	IsDir     bool
	IsListing bool
}

// Resolver resolves request paths under Root, honoring PathSecurityConfig
// and a 100ms result cache.
type Resolver struct {
	Root             string
	Index            []string
	Security         PathSecurityConfig
	DisableSanitizer bool
	DirectoryListing bool
	cache            libcache.Cache[string, *Resolved]
}

func NewResolver(ctx context.Context, root string, security PathSecurityConfig, disableSanitizer, directoryListing bool) *Resolver {
	idx := DefaultIndexFiles
	return &Resolver{
		Root:             root,
		Index:            idx,
		Security:         security,
		DisableSanitizer: disableSanitizer,
		DirectoryListing: directoryListing,
		cache:            libcache.New[string, *Resolved](ctx, 100*time.Millisecond),
	}
}

// Resolve maps a URL path to a filesystem location, applying the
// security policy and index-file fallback, and caching the decision for
// 100ms per request path.
func (r *Resolver) Resolve(rawPath string) (*Resolved, errors.Error) {
	if cached, _, ok := r.cache.Load(rawPath); ok {
		return cached, nil
	}

	res, err := r.resolveUncached(rawPath)
	if err == nil {
		r.cache.Store(rawPath, res)
	}
	return res, err
}

func (r *Resolver) resolveUncached(rawPath string) (*Resolved, errors.Error) {
	decoded, derr := url.PathUnescape(rawPath)
	if derr != nil || strings.ContainsRune(decoded, 0) {
		return nil, ErrorPathUnsafe.Error(derr)
	}

	if !r.Security.IsPathSafe(decoded) {
		return nil, ErrorPathUnsafe.Error(nil)
	}

	cleaned := filepath.Clean("/" + decoded)
	absPath := filepath.Join(r.Root, cleaned)

	if r.DisableSanitizer {
		canonicalRoot, cerr := filepath.EvalSymlinks(r.Root)
		if cerr != nil {
			return nil, ErrorCanonicalize.Error(cerr)
		}
		canonicalPath, cerr := filepath.EvalSymlinks(absPath)
		if cerr != nil {
			return nil, ErrorNotFound.Error(cerr)
		}
		if !strings.HasPrefix(canonicalPath, canonicalRoot) {
			return nil, ErrorPathUnsafe.Error(nil)
		}
		absPath = canonicalPath
	}

	info, serr := os.Stat(absPath)
	if serr != nil {
		return nil, ErrorNotFound.Error(serr)
	}

	if !info.IsDir() {
		return &Resolved{AbsPath: absPath, Info: info}, nil
	}

	for _, idx := range r.Index {
		candidate := filepath.Join(absPath, idx)
		if ci, cerr := os.Stat(candidate); cerr == nil && !ci.IsDir() {
			return &Resolved{AbsPath: candidate, Info: ci}, nil
		}
	}

	if r.DirectoryListing {
		return &Resolved{AbsPath: absPath, Info: info, IsDir: true, IsListing: true}, nil
	}

	return nil, ErrorPathUnsafe.Error(nil)
}
