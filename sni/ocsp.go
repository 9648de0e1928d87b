/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package sni

import (
	"bytes"
	"context"
	"crypto/x509"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/ocsp"

	"github.com/nabbar/kestrel/logging"
)

// staplingMargin is how long before NextUpdate a staple is refreshed.
const staplingMargin = 1 * time.Hour

// Stapler fetches and refreshes an OCSP staple for one leaf certificate,
// keyed against its issuer.
type Stapler struct {
	mu     sync.RWMutex
	leaf   *x509.Certificate
	issuer *x509.Certificate
	client *http.Client
	log    *logging.Logger

	staple     []byte
	nextUpdate time.Time
}

// NewStapler builds a Stapler for leaf/issuer. client defaults to
// http.DefaultClient when nil.
func NewStapler(leaf, issuer *x509.Certificate, client *http.Client, log *logging.Logger) *Stapler {
	if client == nil {
		client = http.DefaultClient
	}

	return &Stapler{leaf: leaf, issuer: issuer, client: client, log: log}
}

// Staple returns the most recently fetched staple, or nil if none has
// been fetched yet or the cached one already lapsed.
func (s *Stapler) Staple() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if time.Now().After(s.nextUpdate) {
		return nil
	}

	return s.staple
}

// Refresh queries the OCSP responder named on the leaf certificate and
// stores the resulting staple.
func (s *Stapler) Refresh(ctx context.Context) error {
	if len(s.leaf.OCSPServer) == 0 {
		return ErrorOCSPNoResponder.Error(nil)
	}

	req, e := ocsp.CreateRequest(s.leaf, s.issuer, nil)
	if e != nil {
		return ErrorOCSPRequest.Error(e)
	}

	httpReq, e := http.NewRequestWithContext(ctx, http.MethodPost, s.leaf.OCSPServer[0], bytes.NewReader(req))
	if e != nil {
		return ErrorOCSPRequest.Error(e)
	}
	httpReq.Header.Set("Content-Type", "application/ocsp-request")

	resp, e := s.client.Do(httpReq)
	if e != nil {
		return ErrorOCSPFetch.Error(e)
	}
	defer func() { _ = resp.Body.Close() }()

	body, e := io.ReadAll(resp.Body)
	if e != nil {
		return ErrorOCSPFetch.Error(e)
	}

	parsed, e := ocsp.ParseResponseForCert(body, s.leaf, s.issuer)
	if e != nil {
		return ErrorOCSPParse.Error(e)
	}

	s.mu.Lock()
	s.staple = body
	s.nextUpdate = parsed.NextUpdate
	s.mu.Unlock()

	return nil
}

// Run refreshes the staple immediately, then on a timer fired at
// nextUpdate-staplingMargin, until ctx is cancelled.
func (s *Stapler) Run(ctx context.Context) {
	for {
		var wait time.Duration

		if e := s.Refresh(ctx); e != nil {
			if s.log != nil {
				s.log.Warnf("ocsp staple refresh failed: %s", e.Error())
			}
			wait = staplingMargin
		} else {
			s.mu.RLock()
			wait = time.Until(s.nextUpdate.Add(-staplingMargin))
			s.mu.RUnlock()

			if wait <= 0 {
				wait = staplingMargin
			}
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}
