// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package marshal

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

// ContentTypeJSON holds the HTML content-type of a JSON payload
const ContentTypeJSON = "application/json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonSerializer struct{}

func (jsonSerializer) Marshal(payload *Payload, writer io.Writer) error {
	stream := json.BorrowStream(writer)
	defer json.ReturnStream(stream)

	stream.WriteVal(payload)
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}

func (jsonSerializer) ContentType() string {
	return ContentTypeJSON
}

// Unmarshal decodes a JSON payload produced by the JSON Marshaler
func Unmarshal(blob []byte) (*Payload, error) {
	payload := new(Payload)
	if err := json.Unmarshal(blob, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

var _ Marshaler = jsonSerializer{}
