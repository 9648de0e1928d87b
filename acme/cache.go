/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package acme

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/acme/autocert"
)

// hashedCache namespaces a shared autocert.Cache by port and host, so one
// cache directory can serve several auto-TLS managers without their keys
// colliding.
type hashedCache struct {
	base   autocert.Cache
	prefix string
}

// NewCache wraps base, prefixing every key with the SHA-256 hex digest of
// "port-host".
func NewCache(base autocert.Cache, port int, host string) autocert.Cache {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d-%s", port, host)))
	return &hashedCache{base: base, prefix: hex.EncodeToString(sum[:])}
}

func (c *hashedCache) key(k string) string {
	return c.prefix + "-" + k
}

func (c *hashedCache) Get(ctx context.Context, key string) ([]byte, error) {
	p, e := c.base.Get(ctx, c.key(key))
	if e != nil && e != autocert.ErrCacheMiss {
		return nil, ErrorCacheGet.Error(e)
	}
	return p, e
}

func (c *hashedCache) Put(ctx context.Context, key string, data []byte) error {
	if e := c.base.Put(ctx, c.key(key), data); e != nil {
		return ErrorCachePut.Error(e)
	}
	return nil
}

func (c *hashedCache) Delete(ctx context.Context, key string) error {
	if e := c.base.Delete(ctx, c.key(key)); e != nil {
		return ErrorCacheDelete.Error(e)
	}
	return nil
}
