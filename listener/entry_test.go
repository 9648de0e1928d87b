/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package listener_test

import (
	"net"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/kestrel/listener"
)

var _ = Describe("Entry", func() {
	It("binds, accepts a connection and shuts down cleanly", func() {
		e := listener.NewEntry("test", "127.0.0.1:0", nil)

		var (
			mu   sync.Mutex
			seen int
		)

		Expect(e.Listen(func(c net.Conn) {
			mu.Lock()
			seen++
			mu.Unlock()
			_ = c.Close()
		})).ToNot(HaveOccurred())

		Expect(e.IsRunning()).To(BeTrue())
		Expect(e.IsTLS()).To(BeFalse())

		conn, err := net.Dial("tcp", e.Addr().String())
		Expect(err).ToNot(HaveOccurred())
		_ = conn.Close()

		Eventually(func() int {
			mu.Lock()
			defer mu.Unlock()
			return seen
		}, time.Second).Should(Equal(1))

		Expect(e.Shutdown()).ToNot(HaveOccurred())
		Expect(e.IsRunning()).To(BeFalse())
	})

	It("errors when listening twice without a shutdown in between", func() {
		e := listener.NewEntry("test", "127.0.0.1:0", nil)
		Expect(e.Listen(func(net.Conn) {})).ToNot(HaveOccurred())
		defer func() { _ = e.Shutdown() }()

		Expect(e.Listen(func(net.Conn) {})).To(HaveOccurred())
	})

	It("errors when shutting down a listener that never started", func() {
		e := listener.NewEntry("test", "127.0.0.1:0", nil)
		Expect(e.Shutdown()).To(HaveOccurred())
	})

	It("merges entries bound to the same address and TLS config", func() {
		a := listener.NewEntry("a", "127.0.0.1:8443", nil)
		b := listener.NewEntry("b", "127.0.0.1:8443", nil)

		Expect(a.Merge(b)).To(BeTrue())
		Expect(a.GetName()).To(Equal("b"))
	})

	It("refuses to merge entries with different bind addresses", func() {
		a := listener.NewEntry("a", "127.0.0.1:8443", nil)
		b := listener.NewEntry("b", "127.0.0.1:9443", nil)

		Expect(a.Merge(b)).To(BeFalse())
	})

	It("rebinds on Restart, reusing the last handler", func() {
		e := listener.NewEntry("test", "127.0.0.1:0", nil)
		Expect(e.Listen(func(c net.Conn) { _ = c.Close() })).ToNot(HaveOccurred())

		first := e.Addr().String()
		Expect(e.Restart()).ToNot(HaveOccurred())
		Expect(e.IsRunning()).To(BeTrue())

		_ = first // ephemeral port will differ after rebinding, both are valid binds
		Expect(e.Shutdown()).ToNot(HaveOccurred())
	})

	It("binds a packet entry for QUIC/HTTP-3", func() {
		e := listener.NewPacketEntry("h3", "127.0.0.1:0")
		Expect(e.IsQUIC()).To(BeTrue())

		pc, err := e.ListenPacket()
		Expect(err).ToNot(HaveOccurred())
		Expect(pc).ToNot(BeNil())

		Expect(e.Shutdown()).ToNot(HaveOccurred())
	})
})
