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
	"crypto/x509"

	tlsaut "github.com/nabbar/kestrel/certificates/auth"
	tlscas "github.com/nabbar/kestrel/certificates/ca"
)

func (c *config) SetClientAuth(a tlsaut.ClientAuth) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clientAuth = a
}

func (c *config) GetClientCA() []tlscas.Cert {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.cloneClientCA()
}

func (c *config) GetClientCAPool() *x509.CertPool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := x509.NewCertPool()
	for _, ca := range c.clientCA {
		ca.AppendPool(res)
	}

	return res
}

func (c *config) AddClientCAString(ca string) bool {
	if ca == "" {
		return false
	}

	p, e := tlscas.Parse(ca)
	if e != nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.clientCA = append(c.clientCA, p)
	return true
}

func (c *config) AddClientCAFile(pemFile string) error {
	var p tlscas.Cert

	fct := func(b []byte) error {
		i, e := tlscas.ParseByte(b)
		if e != nil {
			return e
		}

		p = i
		return nil
	}

	if e := checkFile(fct, pemFile); e != nil {
		return e
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.clientCA = append(c.clientCA, p)
	return nil
}
