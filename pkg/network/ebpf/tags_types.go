// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package ebpf

// Static connection tags as set by the kernel probes. Values must match the
// static_tags enum in c/tags-types.h.
const (
	ConnTagHTTP    uint64 = 1 << 0
	ConnTagGnuTLS  uint64 = 1 << 1
	ConnTagOpenSSL uint64 = 1 << 2
	ConnTagTLS     uint64 = 1 << 3
)
