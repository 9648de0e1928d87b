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

	tlscrt "github.com/nabbar/kestrel/certificates/certs"
)

func (c *config) LenCertificatePair() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.cert)
}

func (c *config) CleanCertificatePair() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cert = make([]tlscrt.Cert, 0)
}

func (c *config) GetCertificatePair() []tls.Certificate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]tls.Certificate, 0, len(c.cert))
	for _, p := range c.cert {
		res = append(res, p.TLS())
	}

	return res
}

func (c *config) AddCertificatePairString(key, crt string) error {
	p, e := tlscrt.ParsePair(key, crt)
	if e != nil {
		return e
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cert = append(c.cert, p)
	return nil
}

func (c *config) AddCertificatePairFile(keyFile, crtFile string) error {
	var key, crt []byte

	fct := func(b []byte) error {
		if key == nil {
			key = append(make([]byte, 0, len(b)), b...)
		} else {
			crt = append(make([]byte, 0, len(b)), b...)
		}
		return nil
	}

	if e := checkFile(fct, keyFile, crtFile); e != nil {
		return e
	}

	p, e := tlscrt.ParsePair(string(key), string(crt))
	if e != nil {
		return e
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cert = append(c.cert, p)
	return nil
}
