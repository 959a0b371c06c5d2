// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package telemetry

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"k8s.io/apimachinery/pkg/util/sets"
)

// MetricGroup is a set of metrics sharing a namespace and common tags.
// It is mostly used to produce periodic log summaries.
type MetricGroup struct {
	mux        sync.Mutex
	namespace  string
	commonTags sets.Set[string]
	metrics    []metric
	then       time.Time
}

// NewMetricGroup returns a new `MetricGroup`
func NewMetricGroup(namespace string, commonTags ...string) *MetricGroup {
	return &MetricGroup{
		namespace:  namespace,
		commonTags: sets.New(commonTags...),
		then:       time.Now(),
	}
}

// NewCounter returns a new `Counter` named `<namespace>.<name>`, with the group's common tags
func (mg *MetricGroup) NewCounter(name string, tags ...string) *Counter {
	c := NewCounter(mg.fullName(name), mg.allTags(tags)...)
	mg.add(c)
	return c
}

// NewGauge returns a new `Gauge` named `<namespace>.<name>`, with the group's common tags
func (mg *MetricGroup) NewGauge(name string, tags ...string) *Gauge {
	g := NewGauge(mg.fullName(name), mg.allTags(tags)...)
	mg.add(g)
	return g
}

// Summary returns a log-friendly line with the change of every metric of the
// group since the previous call, and the matching per-second rate.
func (mg *MetricGroup) Summary() string {
	mg.mux.Lock()
	defer mg.mux.Unlock()

	now := time.Now()
	elapsed := now.Sub(mg.then).Seconds()
	mg.then = now

	var b strings.Builder
	for i, m := range mg.metrics {
		base := m.base()
		delta := base.delta()
		if i > 0 {
			b.WriteByte(' ')
		}
		name := strings.TrimPrefix(base.Name(), mg.namespace+".")
		if _, ok := m.(*Gauge); ok {
			fmt.Fprintf(&b, "%s=%d", name, base.Get())
			continue
		}
		if elapsed > 0 {
			fmt.Fprintf(&b, "%s=%d(%.2f/s)", name, delta, float64(delta)/elapsed)
		} else {
			fmt.Fprintf(&b, "%s=%d", name, delta)
		}
	}
	return b.String()
}

func (mg *MetricGroup) add(m metric) {
	mg.mux.Lock()
	defer mg.mux.Unlock()

	for _, other := range mg.metrics {
		if other == m {
			return
		}
	}
	mg.metrics = append(mg.metrics, m)
}

func (mg *MetricGroup) fullName(name string) string {
	if mg.namespace == "" {
		return name
	}
	return mg.namespace + "." + name
}

func (mg *MetricGroup) allTags(tags []string) []string {
	all := make([]string, 0, len(tags)+mg.commonTags.Len())
	all = append(all, sets.List(mg.commonTags)...)
	return append(all, tags...)
}
