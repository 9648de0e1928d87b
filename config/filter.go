/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package config

import (
	"net"
	"strconv"
	"strings"
)

// Filter scopes a ServerConfiguration to a subset of requests. A Filter
// with every field empty/zero matches any request and marks the owning
// configuration as "global".
type Filter struct {
	IP       string // exact client IP, empty = any
	Hostname string // exact or "*.suffix" wildcard-prefixed, empty = any
	Port     int    // 0 = any
	Location string // path prefix, empty = any
}

// IsGlobal reports whether the filter matches every request.
func (f Filter) IsGlobal() bool {
	return f.IP == "" && f.Hostname == "" && f.Port == 0 && f.Location == ""
}

// Matches reports whether the filter applies to the given request facets.
func (f Filter) Matches(ip, host string, port int, path string) bool {
	if f.IP != "" && f.IP != ip {
		return false
	}
	if f.Port != 0 && f.Port != port {
		return false
	}
	if f.Hostname != "" && !matchHostname(f.Hostname, host) {
		return false
	}
	if f.Location != "" && !strings.HasPrefix(path, f.Location) {
		return false
	}
	return true
}

func matchHostname(pattern, host string) bool {
	host = strings.ToLower(host)
	pattern = strings.ToLower(pattern)
	if strings.HasPrefix(pattern, "*.") {
		suffix := pattern[1:] // keep leading dot
		return strings.HasSuffix(host, suffix) && host != suffix[1:]
	}
	return pattern == host
}

// specificity scores a filter so the most specific match wins ties
// deterministically: hostname beats no-hostname, IP narrows further,
// location prefix narrows further still. Higher is more specific.
func (f Filter) specificity() int {
	s := 0
	if f.Hostname != "" {
		s += 100
		if !strings.HasPrefix(f.Hostname, "*.") {
			s += 10 // exact host beats wildcard host
		}
	}
	if f.IP != "" {
		if _, _, err := net.ParseCIDR(f.IP); err == nil {
			s += 20
		} else {
			s += 30
		}
	}
	if f.Port != 0 {
		s += 5
	}
	if f.Location != "" {
		s += len(f.Location) // longer prefix is more specific
	}
	return s
}

func (f Filter) String() string {
	return strings.Join([]string{
		"ip=" + f.IP,
		"host=" + f.Hostname,
		"port=" + strconv.Itoa(f.Port),
		"loc=" + f.Location,
	}, ",")
}
