// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package conntags

import (
	"github.com/cihub/seelog"

	libtelemetry "github.com/DataDog/conntags/pkg/network/protocols/telemetry"
	"github.com/DataDog/conntags/pkg/network/tags"
	"github.com/DataDog/conntags/pkg/util/log"
)

// storeTelemetry metrics live in the global registry: every Store shares them
type storeTelemetry struct {
	// metricGroup is used here mostly for building the log message below
	metricGroup *libtelemetry.MetricGroup

	// observed     observations merged into an entry
	// dropped      observations for untracked connections
	// created      entries created
	// removed      entries removed by the connection lifecycle
	// expired      entries evicted after their TTL
	// overCapacity entries not created because the store was full
	// tracked      current number of entries across all stores
	observed     *libtelemetry.TLSAwareCounter
	dropped      *libtelemetry.Counter
	created      *libtelemetry.Counter
	removed      *libtelemetry.Counter
	expired      *libtelemetry.Counter
	overCapacity *libtelemetry.Counter
	tracked      *libtelemetry.Gauge
}

func newStoreTelemetry() *storeTelemetry {
	metricGroup := libtelemetry.NewMetricGroup("network.conn_tags", libtelemetry.OptPrometheus)
	return &storeTelemetry{
		metricGroup: metricGroup,

		observed:     libtelemetry.NewTLSAwareCounter(metricGroup, "observed"),
		dropped:      metricGroup.NewCounter("dropped"),
		created:      metricGroup.NewCounter("created"),
		removed:      metricGroup.NewCounter("removed"),
		expired:      metricGroup.NewCounter("expired"),
		overCapacity: metricGroup.NewCounter("over_capacity"),
		tracked:      metricGroup.NewGauge("tracked"),
	}
}

var encrypted = tags.Empty().With(tags.TLS).With(tags.LibSSL).With(tags.LibGnuTLS)

func (t *storeTelemetry) observe(s tags.Set) {
	t.observed.Add(1, s&encrypted != 0)
}

func (t *storeTelemetry) log() {
	if log.ShouldLog(seelog.DebugLvl) {
		log.Debugf("connection tags stats summary: %s", t.metricGroup.Summary())
	}
}
