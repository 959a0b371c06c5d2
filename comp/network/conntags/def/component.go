// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package conntags provides the connection tag store component
package conntags

import (
	"github.com/DataDog/conntags/pkg/network/conntags"
	"github.com/DataDog/conntags/pkg/network/tags"
	"github.com/DataDog/conntags/pkg/network/types"
)

// team: universal-service-monitoring

// Component is the component type.
type Component interface {
	// Track opens the entry of a connection
	Track(key types.ConnectionKey) bool
	// Observe merges a tag into the entry of a connection
	Observe(key types.ConnectionKey, tag tags.Tag) bool
	// ObserveSet merges a tag set into the entry of a connection
	ObserveSet(key types.ConnectionKey, set tags.Set) bool
	// Get returns the tags of a connection
	Get(key types.ConnectionKey) tags.Set
	// Remove deletes the entry of a connection
	Remove(key types.ConnectionKey)
	// Snapshot returns the tags of every tracked connection
	Snapshot() []conntags.Entry
	// Len returns the number of tracked connections
	Len() int
}
