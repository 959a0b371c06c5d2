// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package marshal implements the marshaling side of connection tags encoding
package marshal

import (
	"io"
	"strings"
)

var (
	jSerializer = jsonSerializer{}
	tSerializer = textSerializer{}
)

// Marshaler is an interface implemented by all Payload serializers
type Marshaler interface {
	Marshal(payload *Payload, writer io.Writer) error
	ContentType() string
}

// GetMarshaler returns the appropriate Marshaler based on the given accept header
func GetMarshaler(accept string) Marshaler {
	if strings.Contains(accept, ContentTypeText) {
		return tSerializer
	}

	return jSerializer
}
