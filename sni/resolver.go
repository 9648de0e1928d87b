/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

// Package sni maps a TLS ClientHello's server name to a certificate,
// resolving exact hosts first, then one-label wildcards, then an
// optional fallback, and layers OCSP stapling on top of the match.
package sni

import (
	"crypto/tls"
	"strings"
	"sync"

	"github.com/nabbar/kestrel/certificates"
)

// Entry binds one hostname registration to its certificate, TLS policy
// and optional OCSP stapler. Cert is a static certificate; GetCertificate
// overrides it with a dynamic lookup (e.g. ACME-managed hosts) when set.
type Entry struct {
	Host           string
	Cert           *tls.Certificate
	Config         certificates.TLSConfig
	Stapler        *Stapler
	GetCertificate func(*tls.ClientHelloInfo) (*tls.Certificate, error)
}

func (e *Entry) tlsConfig(hello *tls.ClientHelloInfo) (*tls.Config, error) {
	var cfg *tls.Config

	if e.Config != nil {
		cfg = e.Config.TlsConfig(hello.ServerName)
	} else {
		cfg = &tls.Config{ServerName: hello.ServerName}
	}

	if e.GetCertificate != nil {
		cfg.GetCertificate = e.GetCertificate
		return cfg, nil
	}

	cert := *e.Cert
	if e.Stapler != nil {
		cert.OCSPStaple = e.Stapler.Staple()
	}

	cfg.Certificates = []tls.Certificate{cert}
	return cfg, nil
}

// Resolver is a host -> certificate map supporting exact, wildcard and
// fallback resolution, safe for concurrent use.
type Resolver struct {
	mu        sync.RWMutex
	exact     map[string]*Entry
	wildcards map[string]*Entry
	fallback  *Entry
}

// NewResolver returns an empty Resolver.
func NewResolver() *Resolver {
	return &Resolver{
		exact:     make(map[string]*Entry),
		wildcards: make(map[string]*Entry),
	}
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	return strings.TrimSuffix(host, ".")
}

// AddHost registers an exact hostname, or a one-label wildcard when host
// starts with "*.".
func (r *Resolver) AddHost(host string, e *Entry) {
	host = normalizeHost(host)
	e.Host = host

	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.HasPrefix(host, "*.") {
		r.wildcards[strings.TrimPrefix(host, "*.")] = e
		return
	}

	r.exact[host] = e
}

// SetFallback registers the entry served when no host matches.
func (r *Resolver) SetFallback(e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fallback = e
}

// Lookup resolves host by exact match, then a one-label wildcard match,
// then the fallback entry.
func (r *Resolver) Lookup(host string) (*Entry, bool) {
	host = normalizeHost(host)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.exact[host]; ok {
		return e, true
	}

	if i := strings.IndexByte(host, '.'); i >= 0 {
		if e, ok := r.wildcards[host[i+1:]]; ok {
			return e, true
		}
	}

	if r.fallback != nil {
		return r.fallback, true
	}

	return nil, false
}

// GetConfigForClient implements the signature expected by
// tls.Config.GetConfigForClient, picking a per-host *tls.Config so each
// host can carry its own cipher/version/client-auth policy.
func (r *Resolver) GetConfigForClient(hello *tls.ClientHelloInfo) (*tls.Config, error) {
	e, ok := r.Lookup(hello.ServerName)
	if !ok {
		return nil, ErrorNoMatch.Error(nil)
	}

	return e.tlsConfig(hello)
}
