// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package telemetry

import (
	"reflect"
	"sync"
)

var globalRegistry *registry

type registry struct {
	mux     sync.Mutex
	metrics []metric
}

// FindOrCreate returns the registered metric with the same name, tags and
// kind as m, registering m if there is none
func (r *registry) FindOrCreate(m metric) metric {
	r.mux.Lock()
	defer r.mux.Unlock()

	name := m.base().Name()
	for _, other := range r.metrics {
		if other.base().Name() == name && reflect.TypeOf(other) == reflect.TypeOf(m) {
			return other
		}
	}

	r.metrics = append(r.metrics, m)
	return m
}

// GetMetrics returns the registered metrics carrying all the given options
func (r *registry) GetMetrics(opts ...string) []metric {
	r.mux.Lock()
	defer r.mux.Unlock()

	var result []metric
	for _, m := range r.metrics {
		if m.base().opts.HasAll(opts...) {
			result = append(result, m)
		}
	}
	return result
}

// Clear the global registry. Used by tests.
func Clear() {
	globalRegistry.mux.Lock()
	globalRegistry.metrics = nil
	globalRegistry.mux.Unlock()
}

func init() {
	globalRegistry = &registry{}
}
