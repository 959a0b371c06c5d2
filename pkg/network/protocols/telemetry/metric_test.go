// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package telemetry

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	c := NewCounter("conn_tags.observed", "tag:http", OptPrometheus)
	c.Add(3)
	c.Add(-1)
	c.Add(0)
	assert.Equal(t, int64(3), c.Get())
	assert.Equal(t, "conn_tags.observed,tag:http", c.Name())

	// same name and tags share the underlying value
	again := NewCounter("conn_tags.observed", "tag:http")
	assert.Same(t, c, again)

	// a gauge with the same name is a distinct metric
	g := NewGauge("conn_tags.observed", "tag:http")
	g.Set(10)
	assert.Equal(t, int64(3), c.Get())
}

func TestGauge(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	g := NewGauge("conn_tags.tracked")
	g.Add(5)
	g.Add(-2)
	assert.Equal(t, int64(3), g.Get())
	g.Set(42)
	assert.Equal(t, int64(42), g.Get())
}

func TestTLSAwareCounter(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	mg := NewMetricGroup("network.conn_tags")
	c := NewTLSAwareCounter(mg, "observed")
	c.Add(2, true)
	c.Add(5, false)
	assert.Equal(t, int64(2), c.Get(true))
	assert.Equal(t, int64(5), c.Get(false))
}

func TestMetricGroupSummary(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	mg := NewMetricGroup("network.conn_tags", "module:test")
	dropped := mg.NewCounter("dropped")
	tracked := mg.NewGauge("tracked")

	assert.Equal(t, "network.conn_tags.dropped,module:test", dropped.Name())

	dropped.Add(4)
	tracked.Set(7)
	summary := mg.Summary()
	assert.True(t, strings.HasPrefix(summary, "dropped,module:test=4"), summary)
	assert.Contains(t, summary, "tracked,module:test=7")

	// counters report deltas, gauges report their value
	dropped.Add(1)
	summary = mg.Summary()
	assert.True(t, strings.HasPrefix(summary, "dropped,module:test=1"), summary)
	assert.Contains(t, summary, "tracked,module:test=7")
}

func TestPrometheusCollector(t *testing.T) {
	Clear()
	t.Cleanup(Clear)

	mg := NewMetricGroup("network.conn_tags", OptPrometheus)
	observed := NewTLSAwareCounter(mg, "observed")
	tracked := mg.NewGauge("tracked")
	NewCounter("network.conn_tags.hidden", OptStatsd).Add(1)

	observed.Add(3, true)
	tracked.Set(2)

	c := NewCollector()
	assert.Equal(t, 3, testutil.CollectAndCount(c))
	assert.Equal(t, 2, testutil.CollectAndCount(c, "network_conn_tags_observed"))

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))
	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				name := mf.GetName()
				for _, l := range m.GetLabel() {
					name += "," + l.GetName() + ":" + l.GetValue()
				}
				values[name] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, map[string]float64{
		"network_conn_tags_observed,encrypted:true":  3,
		"network_conn_tags_observed,encrypted:false": 0,
		"network_conn_tags_tracked":                  2,
	}, values)
}
