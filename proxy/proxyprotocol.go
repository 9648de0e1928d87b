/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package proxy

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/nabbar/kestrel/errors"
)

// ProxyProtocolVersion selects the wire encoding written ahead of the
// forwarded connection.
type ProxyProtocolVersion uint8

const (
	ProxyProtocolNone ProxyProtocolVersion = iota
	ProxyProtocolV1
	ProxyProtocolV2
)

var sigV2 = [12]byte{0x0D, 0x0A, 0x0D, 0x0A, 0x00, 0x0D, 0x0A, 0x51, 0x55, 0x49, 0x54, 0x0A}

// WriteProxyProtocolHeader writes the PROXY protocol preamble for srcIP:srcPort
// -> dstIP:dstPort onto w, ahead of any application bytes.
func WriteProxyProtocolHeader(w net.Conn, version ProxyProtocolVersion, srcIP net.IP, srcPort int, dstIP net.IP, dstPort int) errors.Error {
	if version == ProxyProtocolNone {
		return nil
	}

	var buf []byte
	var err error
	if version == ProxyProtocolV1 {
		buf, err = encodeV1(srcIP, srcPort, dstIP, dstPort)
	} else {
		buf, err = encodeV2(srcIP, srcPort, dstIP, dstPort)
	}
	if err != nil {
		return ErrorProxyProtocolWrite.Error(err)
	}

	if _, werr := w.Write(buf); werr != nil {
		return ErrorProxyProtocolWrite.Error(werr)
	}
	return nil
}

func encodeV1(srcIP net.IP, srcPort int, dstIP net.IP, dstPort int) ([]byte, error) {
	family := "TCP4"
	if srcIP.To4() == nil {
		family = "TCP6"
	}
	line := fmt.Sprintf("PROXY %s %s %s %d %d\r\n", family, srcIP.String(), dstIP.String(), srcPort, dstPort)
	return []byte(line), nil
}

func encodeV2(srcIP net.IP, srcPort int, dstIP net.IP, dstPort int) ([]byte, error) {
	isV4 := srcIP.To4() != nil

	var addrLen int
	var family byte
	if isV4 {
		family = 0x11 // AF_INET | STREAM
		addrLen = 12  // 4+4+2+2
	} else {
		family = 0x21 // AF_INET6 | STREAM
		addrLen = 36 // 16+16+2+2
	}

	header := make([]byte, 16+addrLen)
	copy(header[0:12], sigV2[:])
	header[12] = 0x21 // version 2, PROXY command
	header[13] = family
	binary.BigEndian.PutUint16(header[14:16], uint16(addrLen))

	off := 16
	if isV4 {
		copy(header[off:off+4], srcIP.To4())
		off += 4
		copy(header[off:off+4], dstIP.To4())
		off += 4
	} else {
		copy(header[off:off+16], srcIP.To16())
		off += 16
		copy(header[off:off+16], dstIP.To16())
		off += 16
	}
	binary.BigEndian.PutUint16(header[off:off+2], uint16(srcPort))
	off += 2
	binary.BigEndian.PutUint16(header[off:off+2], uint16(dstPort))

	return header, nil
}
