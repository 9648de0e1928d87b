/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

// Package acme issues and renews TLS certificates automatically per
// auto-TLS-flagged host, answering HTTP-01 at the well-known challenge
// path and TLS-ALPN-01 through the same per-host certificate callback
// consumed by the sni resolver.
package acme

import (
	"crypto/tls"
	"net/http"
	"strings"

	"golang.org/x/crypto/acme/autocert"

	"github.com/nabbar/kestrel/logging"
	"github.com/nabbar/kestrel/sni"
)

// Manager drives automatic issuance/renewal for a single host on a
// single port.
type Manager struct {
	mgr  *autocert.Manager
	host string
	port int
	log  *logging.Logger
}

func newManager(host string, port int, cache autocert.Cache, email string, log *logging.Logger) *Manager {
	return &Manager{
		mgr: &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			Cache:      cache,
			HostPolicy: autocert.HostWhitelist(host),
			Email:      email,
		},
		host: host,
		port: port,
		log:  log,
	}
}

// NewManagers builds one Manager per host, skipping wildcard hostnames
// since automatic issuance does not support them. cache is shared across
// hosts and namespaced per host by NewCache.
func NewManagers(hosts []string, port int, cache autocert.Cache, email string, log *logging.Logger) ([]*Manager, error) {
	if len(hosts) == 0 {
		return nil, ErrorNoHosts.Error(nil)
	}

	res := make([]*Manager, 0, len(hosts))

	for _, h := range hosts {
		if strings.HasPrefix(h, "*.") {
			if log != nil {
				log.Warnf("acme: skipping wildcard host %q, automatic issuance does not support wildcards", h)
			}
			continue
		}

		res = append(res, newManager(h, port, NewCache(cache, port, h), email, log))
	}

	return res, nil
}

// Host returns the hostname this manager issues certificates for.
func (m *Manager) Host() string {
	return m.host
}

// Port returns the port this manager was registered against.
func (m *Manager) Port() int {
	return m.port
}

// HTTPHandler answers HTTP-01 challenges at /.well-known/acme-challenge/
// and forwards every other request to fallback.
func (m *Manager) HTTPHandler(fallback http.Handler) http.Handler {
	return m.mgr.HTTPHandler(fallback)
}

// TLSConfig returns a *tls.Config whose GetCertificate also answers
// TLS-ALPN-01 challenges carrying the acme-tls/1 protocol.
func (m *Manager) TLSConfig() *tls.Config {
	return m.mgr.TLSConfig()
}

// Entry adapts this manager into an sni.Entry so the resolver serves
// ACME-managed certificates the same way as statically configured ones.
func (m *Manager) Entry() *sni.Entry {
	return &sni.Entry{
		Host:           m.host,
		GetCertificate: m.mgr.GetCertificate,
	}
}
