// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package tags

// GetStaticTags returns the report strings of a raw static tags bitmask, as
// set by the kernel probes, using the default vocabulary.
func GetStaticTags(staticTags uint64) []string {
	return defaultVocabulary.Names(Set(staticTags))
}
