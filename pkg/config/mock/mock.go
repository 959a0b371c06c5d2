// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package mock provides configuration helpers for tests
package mock

import (
	"testing"

	"github.com/DataDog/viper"

	"github.com/DataDog/conntags/pkg/config/setup"
)

// NewSystemProbe installs a fresh system-probe configuration as the global
// one and restores the previous configuration when the test ends.
func NewSystemProbe(t testing.TB) *viper.Viper {
	cfg := setup.NewSystemProbeConfig()
	previous := setup.SetSystemProbe(cfg)
	t.Cleanup(func() {
		setup.SetSystemProbe(previous)
	})
	return cfg
}
