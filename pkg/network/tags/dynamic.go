// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package tags

// DynamicSet interns tag strings into dense indexes, so a payload can carry
// each string once and refer to it by index. It is not safe for concurrent use.
type DynamicSet struct {
	set          map[string]uint32
	nextTagValue uint32
}

// NewDynamicSet creates an empty DynamicSet
func NewDynamicSet() *DynamicSet {
	return &DynamicSet{
		set: make(map[string]uint32),
	}
}

// Size returns the number of unique tags
func (ts *DynamicSet) Size() int {
	return len(ts.set)
}

// Add adds a tag to the set and returns its index. Adding a known tag
// returns the index it got the first time.
func (ts *DynamicSet) Add(tag string) uint32 {
	if v, found := ts.set[tag]; found {
		return v
	}
	v := ts.nextTagValue
	ts.set[tag] = v
	ts.nextTagValue++
	return v
}

// GetStrings returns the tags ordered by index
func (ts *DynamicSet) GetStrings() []string {
	strs := make([]string, len(ts.set))
	for k, v := range ts.set {
		strs[v] = k
	}
	return strs
}
