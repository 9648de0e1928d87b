/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

// Package staticfile implements the static-file engine (component F):
// path resolution with a short-lived cache, conditional and range
// requests, on-the-fly and precompressed content negotiation, and
// directory listings.
package staticfile

import "strings"

// PathSecurityConfig gates which request paths may ever reach the
// filesystem, ahead of path resolution.
type PathSecurityConfig struct {
	Enabled         bool
	AllowDotFiles   bool
	MaxPathDepth    int
	BlockedPatterns []string
}

// DefaultPathSecurityConfig matches the pack's pathsecurity_test.go
// defaults: traversal and dot-files blocked, common secret files
// denylisted, a generous but finite depth ceiling.
func DefaultPathSecurityConfig() PathSecurityConfig {
	return PathSecurityConfig{
		Enabled:       true,
		AllowDotFiles: false,
		MaxPathDepth:  10,
		BlockedPatterns: []string{
			".git", ".env", ".svn", ".htaccess", "wp-config.php",
		},
	}
}

// IsPathSafe rejects traversal segments, NUL bytes, blocked patterns,
// paths deeper than MaxPathDepth and (unless allowed) dot-prefixed
// segments, before the path is ever joined to the document root. The
// path is checked as given: percent-escapes are not decoded here.
func (c PathSecurityConfig) IsPathSafe(path string) bool {
	if !c.Enabled {
		return true
	}
	if strings.ContainsRune(path, 0) {
		return false
	}

	segments := strings.Split(path, "/")
	depth := 0
	for _, seg := range segments {
		if seg == "" || seg == "." {
			continue
		}
		if seg == ".." {
			return false
		}
		if !c.AllowDotFiles && strings.HasPrefix(seg, ".") {
			return false
		}
		depth++
	}
	if c.MaxPathDepth > 0 && depth > c.MaxPathDepth {
		return false
	}

	lower := strings.ToLower(path)
	for _, pattern := range c.BlockedPatterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return false
		}
	}

	return true
}
