// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package telemetry

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/apimachinery/pkg/util/sets"
)

type collector struct{}

// NewCollector returns a Prometheus collector exposing every registered metric
// created with OptPrometheus. Metric tags of the form `key:value` become labels.
func NewCollector() prometheus.Collector {
	return collector{}
}

// Describe sends no descriptor, which makes the collector unchecked: the set
// of metrics is only known at collection time.
func (collector) Describe(chan<- *prometheus.Desc) {}

func (collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range globalRegistry.GetMetrics(OptPrometheus) {
		base := m.base()
		labels, values := tagsToLabels(base.tags)

		valueType := prometheus.GaugeValue
		if _, ok := m.(*Counter); ok {
			valueType = prometheus.CounterValue
		}

		desc := prometheus.NewDesc(sanitize(base.name), base.name, labels, nil)
		pm, err := prometheus.NewConstMetric(desc, valueType, float64(base.Get()), values...)
		if err != nil {
			ch <- prometheus.NewInvalidMetric(desc, err)
			continue
		}
		ch <- pm
	}
}

func tagsToLabels(tags sets.Set[string]) (labels, values []string) {
	for _, tag := range sets.List(tags) {
		key, value, found := strings.Cut(tag, ":")
		if !found {
			value = "true"
		}
		labels = append(labels, sanitize(key))
		values = append(values, value)
	}
	return
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
