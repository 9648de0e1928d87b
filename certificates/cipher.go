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

import tlscpr "github.com/nabbar/kestrel/certificates/cipher"

func (c *config) SetCipherList(list []tlscpr.Cipher) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cipherList = make([]tlscpr.Cipher, 0, len(list))
	c.cipherList = append(c.cipherList, list...)
}

func (c *config) AddCiphers(list ...tlscpr.Cipher) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cipherList = append(c.cipherList, list...)
}

func (c *config) GetCiphers() []tlscpr.Cipher {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make([]tlscpr.Cipher, 0, len(c.cipherList))
	for _, i := range c.cipherList {
		if i.Check() {
			res = append(res, i)
		}
	}

	return res
}
