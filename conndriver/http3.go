/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package conndriver

import (
	"net"
	"net/http"

	"github.com/quic-go/quic-go/http3"

	"github.com/nabbar/kestrel/certificates"
)

// QUICDriver serves HTTP/3 over a UDP packet connection handed over by
// the listener package's packet entries.
type QUICDriver struct {
	srv *http3.Server
}

// NewQUIC builds a QUICDriver serving handler with the given TLS policy.
func NewQUIC(handler http.Handler, tlsCfg certificates.TLSConfig, serverName string) *QUICDriver {
	return &QUICDriver{
		srv: &http3.Server{
			Handler:   handler,
			TLSConfig: tlsCfg.TLS(serverName),
		},
	}
}

// Serve drives pconn until it is closed or the driver is shut down.
func (d *QUICDriver) Serve(pconn net.PacketConn) error {
	if err := d.srv.Serve(pconn); err != nil {
		return ErrorServe.Error(err)
	}
	return nil
}

// Close shuts the HTTP/3 server down, closing all active sessions.
func (d *QUICDriver) Close() error {
	return d.srv.Close()
}
