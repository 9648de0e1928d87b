/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

// Package listener binds the sockets a kestrel instance serves on: one
// stream listener per (interface, port, tls?) and one packet listener
// per HTTP/3 port, with reconfiguration draining so a config reload can
// swap handlers without dropping in-flight connections.
package listener

import (
	"crypto/tls"
	"net"
	"sync"
)

// ConnHandler drives one accepted connection to completion. It is
// supplied by the connection-driving layer, never implemented here.
type ConnHandler func(net.Conn)

// Entry is one bound address: either a stream listener (TCP, optionally
// wrapped in TLS) or a packet listener (UDP, for HTTP/3/QUIC).
type Entry struct {
	mu sync.RWMutex

	name string
	bind string
	tls  *tls.Config
	quic bool

	ln    net.Listener
	pconn net.PacketConn

	running bool
	handler ConnHandler
	done    chan struct{}
}

// NewEntry declares a stream listener. Pass a non-nil tlsConfig to serve
// TLS directly from this entry (typically tlsConfig.GetConfigForClient
// is set to an sni.Resolver for multi-host certificates).
func NewEntry(name, bind string, tlsConfig *tls.Config) *Entry {
	return &Entry{name: name, bind: bind, tls: tlsConfig}
}

// NewPacketEntry declares a packet (UDP/QUIC) listener for HTTP/3.
func NewPacketEntry(name, bind string) *Entry {
	return &Entry{name: name, bind: bind, quic: true}
}

func (e *Entry) GetName() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.name
}

// GetBindable returns the address this entry binds, used as the pool's
// dedup key.
func (e *Entry) GetBindable() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.bind
}

func (e *Entry) IsTLS() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tls != nil
}

func (e *Entry) IsQUIC() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.quic
}

func (e *Entry) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// Addr returns the actual bound address, useful when the configured
// bind used an ephemeral port ("host:0"). Returns nil when not running.
func (e *Entry) Addr() net.Addr {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.ln != nil {
		return e.ln.Addr()
	}
	if e.pconn != nil {
		return e.pconn.LocalAddr()
	}
	return nil
}

// Merge reports whether o can be folded into e in place (same bind,
// same TLS config pointer and transport kind) rather than requiring the
// pool to replace e with o outright.
func (e *Entry) Merge(o *Entry) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bind != o.bind || e.quic != o.quic {
		return false
	}

	if e.tls != o.tls {
		return false
	}

	e.name = o.name
	return true
}

// Listen binds the stream socket and accepts connections into h until
// Shutdown is called. It is a no-op error to call Listen on a packet
// entry.
func (e *Entry) Listen(h ConnHandler) error {
	e.mu.Lock()

	if e.quic {
		e.mu.Unlock()
		return ErrorListenerBind.Error(nil)
	}
	if e.running {
		e.mu.Unlock()
		return ErrorListenerAlreadyRunning.Error(nil)
	}

	ln, err := net.Listen("tcp", e.bind)
	if err != nil {
		e.mu.Unlock()
		return ErrorListenerBind.Error(err)
	}

	if e.tls != nil {
		ln = tls.NewListener(ln, e.tls)
	}

	e.ln = ln
	e.handler = h
	e.running = true
	e.done = make(chan struct{})
	done := e.done
	e.mu.Unlock()

	go e.acceptLoop(ln, h, done)
	return nil
}

func (e *Entry) acceptLoop(ln net.Listener, h ConnHandler, done chan struct{}) {
	defer close(done)

	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}

		go h(conn)
	}
}

// ListenPacket binds the UDP socket for a QUIC/HTTP-3 entry and returns
// it for the connection-driving layer to drive (e.g. via quic-go).
func (e *Entry) ListenPacket() (net.PacketConn, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.quic {
		return nil, ErrorPacketBind.Error(nil)
	}
	if e.running {
		return e.pconn, nil
	}

	pc, err := net.ListenPacket("udp", e.bind)
	if err != nil {
		return nil, ErrorPacketBind.Error(err)
	}

	e.pconn = pc
	e.running = true
	return pc, nil
}

// Shutdown closes the bound socket and waits for its accept loop (if
// any) to return.
func (e *Entry) Shutdown() error {
	e.mu.Lock()

	if !e.running {
		e.mu.Unlock()
		return ErrorListenerNotRunning.Error(nil)
	}

	var (
		ln   = e.ln
		pc   = e.pconn
		done = e.done
	)

	e.running = false
	e.ln = nil
	e.pconn = nil
	e.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
		<-done
	}
	if pc != nil {
		_ = pc.Close()
	}

	return nil
}

// Restart drains the entry and rebinds it with the handler last passed
// to Listen, used for config-reload reconfiguration.
func (e *Entry) Restart() error {
	e.mu.RLock()
	quic := e.quic
	h := e.handler
	running := e.running
	e.mu.RUnlock()

	if running {
		if err := e.Shutdown(); err != nil {
			return err
		}
	}

	if quic {
		_, err := e.ListenPacket()
		return err
	}

	return e.Listen(h)
}
