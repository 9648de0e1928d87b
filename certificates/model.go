/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package certificates

import (
	"crypto/tls"
	"crypto/x509"
	"io"
	"sync"

	tlsaut "github.com/nabbar/kestrel/certificates/auth"
	tlscas "github.com/nabbar/kestrel/certificates/ca"
	tlscpr "github.com/nabbar/kestrel/certificates/cipher"
	tlscrt "github.com/nabbar/kestrel/certificates/certs"
	tlscrv "github.com/nabbar/kestrel/certificates/curves"
	tlsvrs "github.com/nabbar/kestrel/certificates/tlsversion"
)

type config struct {
	mu sync.RWMutex

	rand                  io.Reader
	cert                  []tlscrt.Cert
	cipherList            []tlscpr.Cipher
	curveList             []tlscrv.Curves
	caRoot                []tlscas.Cert
	clientAuth            tlsaut.ClientAuth
	clientCA              []tlscas.Cert
	tlsMinVersion         tlsvrs.Version
	tlsMaxVersion         tlsvrs.Version
	dynSizingDisabled     bool
	ticketSessionDisabled bool
}

func asStruct(cfg TLSConfig) *config {
	if c, ok := cfg.(*config); ok {
		return c
	}

	return nil
}

func (c *config) RegisterRand(rand io.Reader) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rand = rand
}

func (c *config) SetVersionMin(v tlsvrs.Version) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tlsMinVersion = v
}

func (c *config) GetVersionMin() tlsvrs.Version {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.tlsMinVersion
}

func (c *config) SetVersionMax(v tlsvrs.Version) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tlsMaxVersion = v
}

func (c *config) GetVersionMax() tlsvrs.Version {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.tlsMaxVersion
}

func (c *config) SetDynamicSizingDisabled(flag bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dynSizingDisabled = flag
}

func (c *config) SetSessionTicketDisabled(flag bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ticketSessionDisabled = flag
}

func (c *config) cloneCipherList() []tlscpr.Cipher {
	if c.cipherList == nil {
		return nil
	}

	return append(make([]tlscpr.Cipher, 0, len(c.cipherList)), c.cipherList...)
}

func (c *config) cloneCurveList() []tlscrv.Curves {
	if c.curveList == nil {
		return nil
	}

	return append(make([]tlscrv.Curves, 0, len(c.curveList)), c.curveList...)
}

func (c *config) cloneCertificates() []tlscrt.Cert {
	if c.cert == nil {
		return nil
	}

	return append(make([]tlscrt.Cert, 0, len(c.cert)), c.cert...)
}

func (c *config) cloneRootCA() []tlscas.Cert {
	if c.caRoot == nil {
		return nil
	}

	return append(make([]tlscas.Cert, 0, len(c.caRoot)), c.caRoot...)
}

func (c *config) cloneClientCA() []tlscas.Cert {
	if c.clientCA == nil {
		return nil
	}

	return append(make([]tlscas.Cert, 0, len(c.clientCA)), c.clientCA...)
}

func (c *config) Clone() TLSConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &config{
		rand:                  c.rand,
		caRoot:                c.cloneRootCA(),
		cert:                  c.cloneCertificates(),
		tlsMinVersion:         c.tlsMinVersion,
		tlsMaxVersion:         c.tlsMaxVersion,
		cipherList:            c.cloneCipherList(),
		curveList:             c.cloneCurveList(),
		dynSizingDisabled:     c.dynSizingDisabled,
		ticketSessionDisabled: c.ticketSessionDisabled,
		clientAuth:            c.clientAuth,
		clientCA:              c.cloneClientCA(),
	}
}

func (c *config) TlsConfig(serverName string) *tls.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	/* #nosec */
	cnf := &tls.Config{
		InsecureSkipVerify: false,
		Rand:               c.rand,
	}

	if serverName != "" {
		cnf.ServerName = serverName
	}

	if c.ticketSessionDisabled {
		cnf.SessionTicketsDisabled = true
	}

	if c.dynSizingDisabled {
		cnf.DynamicRecordSizingDisabled = true
	}

	if c.tlsMinVersion != tlsvrs.VersionUnknown {
		cnf.MinVersion = c.tlsMinVersion.TLS()
	}

	if c.tlsMaxVersion != tlsvrs.VersionUnknown {
		cnf.MaxVersion = c.tlsMaxVersion.TLS()
	}

	if len(c.cipherList) > 0 {
		cnf.PreferServerCipherSuites = true
		cnf.CipherSuites = make([]uint16, 0, len(c.cipherList))
		for _, p := range c.cipherList {
			cnf.CipherSuites = append(cnf.CipherSuites, p.TLS())
		}
	}

	if len(c.curveList) > 0 {
		cnf.CurvePreferences = make([]tls.CurveID, 0, len(c.curveList))
		for _, p := range c.curveList {
			cnf.CurvePreferences = append(cnf.CurvePreferences, p.TLS())
		}
	}

	if len(c.caRoot) > 0 {
		pool := x509.NewCertPool()
		for _, p := range c.caRoot {
			p.AppendPool(pool)
		}
		cnf.RootCAs = pool
	}

	if len(c.cert) > 0 {
		cnf.Certificates = make([]tls.Certificate, 0, len(c.cert))
		for _, p := range c.cert {
			cnf.Certificates = append(cnf.Certificates, p.TLS())
		}
	}

	if c.clientAuth != tlsaut.NoClientCert {
		cnf.ClientAuth = c.clientAuth.TLS()
		if len(c.clientCA) > 0 {
			pool := x509.NewCertPool()
			for _, p := range c.clientCA {
				p.AppendPool(pool)
			}
			cnf.ClientCAs = pool
		}
	}

	return cnf
}

func (c *config) TLS(serverName string) *tls.Config {
	return c.TlsConfig(serverName)
}

func (c *config) Config() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()

	certs := make([]tlscrt.Certif, 0, len(c.cert))
	for _, p := range c.cert {
		certs = append(certs, p.Model())
	}

	return &Config{
		CurveList:            c.cloneCurveList(),
		CipherList:           c.cloneCipherList(),
		RootCA:               c.cloneRootCA(),
		ClientCA:             c.cloneClientCA(),
		Certs:                certs,
		VersionMin:           c.tlsMinVersion,
		VersionMax:           c.tlsMaxVersion,
		AuthClient:           c.clientAuth,
		DynamicSizingDisable: c.dynSizingDisabled,
		SessionTicketDisable: c.ticketSessionDisabled,
	}
}
