// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package ebpf

// ConnType is the L4 protocol of a connection tuple
type ConnType uint32

const (
	UDP ConnType = 0
	TCP ConnType = 1
)

func (t ConnType) String() string {
	switch t {
	case TCP:
		return "TCP"
	case UDP:
		return "UDP"
	default:
		return "unknown"
	}
}

// ConnFamily is the address family of a connection tuple
type ConnFamily uint32

const (
	IPv4 ConnFamily = 0
	IPv6 ConnFamily = 1
)

func (f ConnFamily) String() string {
	switch f {
	case IPv4:
		return "v4"
	case IPv6:
		return "v6"
	default:
		return "unknown"
	}
}
