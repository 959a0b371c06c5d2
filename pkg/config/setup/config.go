// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package setup defines the system-probe configuration keys, their defaults
// and the global configuration instance.
package setup

import (
	"fmt"
	"sync"

	"github.com/DataDog/viper"
)

var (
	systemProbe *viper.Viper
	mux         sync.RWMutex
)

// NewSystemProbeConfig returns a configuration holding every default and
// environment binding of system-probe.
func NewSystemProbeConfig() *viper.Viper {
	cfg := viper.New()
	cfg.SetConfigType("yaml")
	InitSystemProbeConfig(cfg)
	return cfg
}

// SystemProbe returns the global system-probe configuration
func SystemProbe() *viper.Viper {
	mux.RLock()
	defer mux.RUnlock()
	return systemProbe
}

// SetSystemProbe replaces the global system-probe configuration and returns the previous one
func SetSystemProbe(cfg *viper.Viper) *viper.Viper {
	mux.Lock()
	defer mux.Unlock()
	previous := systemProbe
	systemProbe = cfg
	return previous
}

// LoadSystemProbe reads the YAML file at path into the global configuration.
// An empty path keeps the defaults.
func LoadSystemProbe(path string) error {
	if path == "" {
		return nil
	}

	cfg := SystemProbe()
	cfg.SetConfigFile(path)
	if err := cfg.ReadInConfig(); err != nil {
		return fmt.Errorf("unable to load system-probe config file %s: %w", path, err)
	}
	return nil
}

func init() {
	systemProbe = NewSystemProbeConfig()
}
