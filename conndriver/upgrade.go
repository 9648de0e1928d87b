/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package conndriver

import (
	"bufio"
	"net"
	"net/http"
)

// bufConn replays bytes the HTTP/1.1 server already buffered from the
// client before hijacking, so an upgraded connection (e.g. WebSocket)
// never loses data the client sent ahead of the 101 response.
type bufConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *bufConn) Read(p []byte) (int, error) {
	return c.r.Read(p)
}

// Hijack takes over the underlying connection behind w, for handing off
// to proxy.BridgeUpgrade once a protocol upgrade has been negotiated.
func Hijack(w http.ResponseWriter) (net.Conn, error) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		return nil, ErrorHijackUnsupported.Error(nil)
	}

	conn, rw, err := hj.Hijack()
	if err != nil {
		return nil, ErrorHijackFailed.Error(err)
	}

	if rw != nil && rw.Reader != nil && rw.Reader.Buffered() > 0 {
		return &bufConn{Conn: conn, r: rw.Reader}, nil
	}

	return conn, nil
}
