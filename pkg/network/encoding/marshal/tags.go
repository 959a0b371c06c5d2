// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package marshal

import (
	model "github.com/DataDog/agent-payload/v5/process"

	"github.com/DataDog/conntags/pkg/network/conntags"
	"github.com/DataDog/conntags/pkg/network/tags"
)

// ConnectionTags is the report of a single connection
type ConnectionTags struct {
	Type   string `json:"type"`
	Family string `json:"family"`
	Laddr  string `json:"laddr"`
	Raddr  string `json:"raddr"`
	NetNS  uint32 `json:"netns,omitempty"`
	Cookie uint64 `json:"cookie,omitempty"`

	// StaticTags is the raw tag bitmask, as reported by the kernel probes
	StaticTags uint64 `json:"staticTags"`
	// TagsIdx points into Payload.EncodedTags, -1 when the connection has no tags
	TagsIdx int32 `json:"tagsIdx"`
}

// Payload holds the tags of a batch of connections
type Payload struct {
	Connections []ConnectionTags `json:"connections"`
	// Tags lists every distinct tag of the payload, in order of first appearance
	Tags []string `json:"tags"`
	// EncodedTags is the V2 tag encoding of the connection tag lists
	EncodedTags []byte `json:"encodedTags"`
}

// TagsEncoder turns store snapshots into payloads
type TagsEncoder struct {
	vocabulary *tags.Vocabulary
}

// NewTagsEncoder returns an encoder reporting tags with the names of vocabulary
func NewTagsEncoder(vocabulary *tags.Vocabulary) *TagsEncoder {
	if vocabulary == nil {
		vocabulary = tags.Default()
	}
	return &TagsEncoder{vocabulary: vocabulary}
}

// Encode builds the payload of entries. Connections sharing the same tags
// share the same encoded tag list.
func (e *TagsEncoder) Encode(entries []conntags.Entry) *Payload {
	tagsEncoder := model.NewV2TagEncoder()
	tagsSet := tags.NewDynamicSet()
	indices := make(map[tags.Set]int32)

	payload := &Payload{
		Connections: make([]ConnectionTags, 0, len(entries)),
	}
	for _, entry := range entries {
		key := entry.Key
		c := ConnectionTags{
			Type:       key.Type.String(),
			Family:     key.Family.String(),
			Laddr:      key.Source().String(),
			Raddr:      key.Dest().String(),
			NetNS:      key.NetNS,
			Cookie:     key.Cookie,
			StaticTags: uint64(entry.Tags),
			TagsIdx:    -1,
		}

		if idx, ok := indices[entry.Tags]; ok {
			c.TagsIdx = idx
		} else if names := e.vocabulary.Names(entry.Tags); len(names) > 0 {
			for _, name := range names {
				tagsSet.Add(name)
			}
			c.TagsIdx = int32(tagsEncoder.Encode(names))
			indices[entry.Tags] = c.TagsIdx
		}
		payload.Connections = append(payload.Connections, c)
	}

	payload.Tags = tagsSet.GetStrings()
	payload.EncodedTags = tagsEncoder.Buffer()
	return payload
}

// Decoder returns the tag lists decoder of the payload
func (p *Payload) Decoder() *TagsDecoder {
	return &TagsDecoder{decoder: &model.CollectorConnections{EncodedTags: p.EncodedTags}}
}

// TagsDecoder resolves the tags of the connections of a payload
type TagsDecoder struct {
	decoder interface {
		GetTags(tagIndex int) []string
	}
}

// Tags returns the tags of c, or nil if it has none
func (d *TagsDecoder) Tags(c ConnectionTags) []string {
	if c.TagsIdx < 0 {
		return nil
	}
	return d.decoder.GetTags(int(c.TagsIdx))
}
