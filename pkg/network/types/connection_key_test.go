// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package types

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	netebpf "github.com/DataDog/conntags/pkg/network/ebpf"
)

func TestConnectionKeyIPv4(t *testing.T) {
	src := netip.MustParseAddr("10.0.0.1")
	dst := netip.MustParseAddr("192.168.1.20")
	k := NewConnectionKey(src, dst, 34512, 443)

	assert.Equal(t, netebpf.IPv4, k.Family)
	assert.Equal(t, netebpf.TCP, k.Type)
	assert.Zero(t, k.SrcIPHigh)
	assert.Equal(t, netip.AddrPortFrom(src, 34512), k.Source())
	assert.Equal(t, netip.AddrPortFrom(dst, 443), k.Dest())
}

func TestConnectionKeyIPv6(t *testing.T) {
	src := netip.MustParseAddr("2001:db8::1")
	dst := netip.MustParseAddr("2001:db8:ffff::abcd")
	k := NewConnectionKey(src, dst, 1000, 80)

	assert.Equal(t, netebpf.IPv6, k.Family)
	assert.NotZero(t, k.SrcIPHigh)
	assert.Equal(t, src, k.Source().Addr())
	assert.Equal(t, dst, k.Dest().Addr())
}

func TestConnectionKeyMappedIPv4(t *testing.T) {
	k := NewConnectionKey(netip.MustParseAddr("::ffff:10.1.2.3"), netip.MustParseAddr("10.1.2.4"), 1, 2)
	assert.Equal(t, netebpf.IPv4, k.Family)
	assert.Equal(t, netip.MustParseAddr("10.1.2.3"), k.Source().Addr())
}

func TestConnectionKeyIdentity(t *testing.T) {
	src := netip.MustParseAddr("10.0.0.1")
	dst := netip.MustParseAddr("10.0.0.2")
	base := NewConnectionKey(src, dst, 5000, 80)

	assert.Equal(t, base, NewConnectionKey(src, dst, 5000, 80))
	// a reused tuple is a different connection
	assert.NotEqual(t, base.WithCookie(1), base.WithCookie(2))
	assert.NotEqual(t, base, base.WithNetNS(4026531993))
	assert.NotEqual(t, base, base.WithType(netebpf.UDP))
}

func TestConnectionKeyAppendBinary(t *testing.T) {
	k := NewConnectionKey(netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("10.0.0.2"), 5000, 80).WithCookie(7)

	b := k.AppendBinary(nil)
	require.Len(t, b, ConnectionKeySize)
	assert.Equal(t, b, k.AppendBinary(make([]byte, 0, ConnectionKeySize)))
	assert.NotEqual(t, b, k.WithCookie(8).AppendBinary(nil))
}

func TestConnectionKeyString(t *testing.T) {
	k := NewConnectionKey(netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("10.0.0.2"), 5000, 80).WithCookie(7)
	assert.Equal(t, "[TCP] 10.0.0.1:5000 ⇄ 10.0.0.2:80 netns:0 cookie:7", k.String())
}
