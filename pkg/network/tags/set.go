// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package tags

import (
	"fmt"
	"math/bits"
)

// MaxTags is the number of distinct tags a Set can hold
const MaxTags = 64

// Tag is the bit position of a static connection tag
type Tag uint8

// Mask returns the single-bit Set for the tag. Positions outside of the
// 64 bit range map to the empty Set.
func (t Tag) Mask() Set {
	if t >= MaxTags {
		return 0
	}
	return Set(1) << t
}

// Set is a bitmask of the tags observed on a connection.
// Bit i set means the tag at position i was observed.
type Set uint64

// Empty returns the Set with no tag
func Empty() Set {
	return 0
}

// With returns s with tag t set
func With(s Set, t Tag) Set {
	return s | t.Mask()
}

// Union returns the Set holding the tags of both a and b
func Union(a, b Set) Set {
	return a | b
}

// With returns a copy of s with tag t set
func (s Set) With(t Tag) Set {
	return With(s, t)
}

// Union returns the union of s and o
func (s Set) Union(o Set) Set {
	return Union(s, o)
}

// Contains reports whether tag t is part of s
func (s Set) Contains(t Tag) bool {
	m := t.Mask()
	return m != 0 && s&m == m
}

// IsEmpty reports whether no tag is set
func (s Set) IsEmpty() bool {
	return s == 0
}

// Len returns the number of tags in s
func (s Set) Len() int {
	return bits.OnesCount64(uint64(s))
}

// List returns the tags of s in ascending bit position order
func (s Set) List() []Tag {
	if s == 0 {
		return nil
	}

	l := make([]Tag, 0, s.Len())
	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		l = append(l, Tag(bits.TrailingZeros64(rest)))
	}
	return l
}

func (s Set) String() string {
	return fmt.Sprintf("0x%x", uint64(s))
}
