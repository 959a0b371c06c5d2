// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package types contains the connection identity shared by the network packages
package types

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	netebpf "github.com/DataDog/conntags/pkg/network/ebpf"
)

// ConnectionKeySize is the size of the binary encoding of a ConnectionKey
const ConnectionKeySize = 8*4 + 2*2 + 1 + 1 + 4 + 8

// ConnectionKey identifies one connection instance. Two connections reusing
// the same tuple are told apart by their socket cookie.
// The zero value is a valid, if meaningless, key.
type ConnectionKey struct {
	SrcIPHigh uint64
	SrcIPLow  uint64
	DstIPHigh uint64
	DstIPLow  uint64

	SrcPort uint16
	DstPort uint16

	Family netebpf.ConnFamily
	Type   netebpf.ConnType

	NetNS  uint32
	Cookie uint64
}

// NewConnectionKey generates a TCP ConnectionKey from the tuple
func NewConnectionKey(saddr, daddr netip.Addr, sport, dport uint16) ConnectionKey {
	k := ConnectionKey{
		SrcPort: sport,
		DstPort: dport,
		Type:    netebpf.TCP,
		Family:  netebpf.IPv4,
	}
	if saddr.Is6() && !saddr.Is4In6() {
		k.Family = netebpf.IPv6
	}
	k.SrcIPLow, k.SrcIPHigh = ToLowHigh(saddr)
	k.DstIPLow, k.DstIPHigh = ToLowHigh(daddr)
	return k
}

// WithCookie returns a copy of k bound to a socket cookie
func (k ConnectionKey) WithCookie(cookie uint64) ConnectionKey {
	k.Cookie = cookie
	return k
}

// WithNetNS returns a copy of k bound to a network namespace
func (k ConnectionKey) WithNetNS(netns uint32) ConnectionKey {
	k.NetNS = netns
	return k
}

// WithType returns a copy of k with the given L4 protocol
func (k ConnectionKey) WithType(t netebpf.ConnType) ConnectionKey {
	k.Type = t
	return k
}

// Source returns the source address and port
func (k ConnectionKey) Source() netip.AddrPort {
	return netip.AddrPortFrom(FromLowHigh(k.SrcIPLow, k.SrcIPHigh, k.Family), k.SrcPort)
}

// Dest returns the destination address and port
func (k ConnectionKey) Dest() netip.AddrPort {
	return netip.AddrPortFrom(FromLowHigh(k.DstIPLow, k.DstIPHigh, k.Family), k.DstPort)
}

// AppendBinary appends the fixed-size binary encoding of k to b
func (k ConnectionKey) AppendBinary(b []byte) []byte {
	b = binary.LittleEndian.AppendUint64(b, k.SrcIPHigh)
	b = binary.LittleEndian.AppendUint64(b, k.SrcIPLow)
	b = binary.LittleEndian.AppendUint64(b, k.DstIPHigh)
	b = binary.LittleEndian.AppendUint64(b, k.DstIPLow)
	b = binary.LittleEndian.AppendUint16(b, k.SrcPort)
	b = binary.LittleEndian.AppendUint16(b, k.DstPort)
	b = append(b, uint8(k.Family), uint8(k.Type))
	b = binary.LittleEndian.AppendUint32(b, k.NetNS)
	b = binary.LittleEndian.AppendUint64(b, k.Cookie)
	return b
}

func (k ConnectionKey) String() string {
	return fmt.Sprintf("[%s] %s ⇄ %s netns:%d cookie:%d", k.Type, k.Source(), k.Dest(), k.NetNS, k.Cookie)
}

// ToLowHigh splits an address into the low and high 64 bits of its 128 bit
// representation. IPv4 addresses only use the low half.
func ToLowHigh(addr netip.Addr) (l, h uint64) {
	if addr.Is4() || addr.Is4In6() {
		b := addr.Unmap().As4()
		return uint64(binary.BigEndian.Uint32(b[:])), 0
	}
	b := addr.As16()
	return binary.BigEndian.Uint64(b[8:]), binary.BigEndian.Uint64(b[:8])
}

// FromLowHigh is the inverse of ToLowHigh
func FromLowHigh(l, h uint64, family netebpf.ConnFamily) netip.Addr {
	if family == netebpf.IPv4 {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(l))
		return netip.AddrFrom4(b)
	}
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], h)
	binary.BigEndian.PutUint64(b[8:], l)
	return netip.AddrFrom16(b)
}
