/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package proxy

import (
	"io"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/nabbar/kestrel/errors"
)

// IsUpgradeRequest reports whether req asks for a protocol upgrade
// (WebSocket being the common case).
func IsUpgradeRequest(req *http.Request) bool {
	return headerContainsToken(req.Header, "Connection", "upgrade") && req.Header.Get("Upgrade") != ""
}

func headerContainsToken(h http.Header, name, token string) bool {
	for _, v := range h.Values(name) {
		for _, part := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), token) {
				return true
			}
		}
	}
	return false
}

// BridgeUpgrade copies bytes bidirectionally between the client and
// backend connections after a 101 Switching Protocols response, holding
// release (the pool-slot reference for the backend sender) until both
// directions have finished, so the backend connection is never returned
// to the idle pool while still bridged.
func BridgeUpgrade(client, backend net.Conn, release func()) errors.Error {
	defer release()

	var wg sync.WaitGroup
	wg.Add(2)

	var clientErr, backendErr error
	go func() {
		defer wg.Done()
		_, clientErr = io.Copy(backend, client)
		_ = closeWrite(backend)
	}()
	go func() {
		defer wg.Done()
		_, backendErr = io.Copy(client, backend)
		_ = closeWrite(client)
	}()
	wg.Wait()

	if clientErr != nil {
		return ErrorDialFailed.Error(clientErr)
	}
	if backendErr != nil {
		return ErrorDialFailed.Error(backendErr)
	}
	return nil
}

func closeWrite(c net.Conn) error {
	type halfCloser interface {
		CloseWrite() error
	}
	if hc, ok := c.(halfCloser); ok {
		return hc.CloseWrite()
	}
	return nil
}
