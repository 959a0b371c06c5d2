// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package config holds the network tracer configuration
package config

import (
	"math/bits"
	"strings"
	"time"

	"github.com/DataDog/viper"
	"github.com/spf13/cast"

	"github.com/DataDog/conntags/pkg/config/setup"
	"github.com/DataDog/conntags/pkg/util/log"
)

const (
	connTagsNS = "network_config.conn_tags"

	defaultEntryTTL         = 10 * time.Minute
	defaultExpirationPeriod = time.Minute
	defaultShardCount       = 64
	maxShardCount           = 4096
)

// Config stores all flags used by the connection tag store
type Config struct {
	// ConnTagsEnabled enables the connection tag store
	ConnTagsEnabled bool

	// ConnTagsAutoCreate makes an observation on an untracked connection
	// create its entry, instead of being dropped
	ConnTagsAutoCreate bool

	// ConnTagsEntryTTL is how long an entry can go without being observed
	// or tracked before it is expired. Zero disables expiration.
	ConnTagsEntryTTL time.Duration

	// ConnTagsExpirationPeriod is the interval between two expiration passes
	ConnTagsExpirationPeriod time.Duration

	// MaxTrackedConnections bounds the number of entries. Zero means unbounded.
	MaxTrackedConnections int

	// ConnTagsShardCount is the number of independently locked partitions of
	// the store, always a power of two
	ConnTagsShardCount int
}

// New creates a config for the network tracer from the global system-probe configuration
func New() *Config {
	return NewFrom(setup.SystemProbe())
}

// NewFrom creates a config for the network tracer from cfg
func NewFrom(cfg *viper.Viper) *Config {
	c := &Config{
		ConnTagsEnabled:          cfg.GetBool(join(connTagsNS, "enabled")),
		ConnTagsAutoCreate:       cfg.GetBool(join(connTagsNS, "auto_create")),
		ConnTagsEntryTTL:         getDuration(cfg, join(connTagsNS, "entry_ttl"), defaultEntryTTL),
		ConnTagsExpirationPeriod: getDuration(cfg, join(connTagsNS, "expiration_period"), defaultExpirationPeriod),
		MaxTrackedConnections:    cfg.GetInt(join(connTagsNS, "max_tracked_connections")),
		ConnTagsShardCount:       cfg.GetInt(join(connTagsNS, "shard_count")),
	}

	if c.ConnTagsEntryTTL < 0 {
		log.Warnf("invalid %s.entry_ttl %s, using default %s", connTagsNS, c.ConnTagsEntryTTL, defaultEntryTTL)
		c.ConnTagsEntryTTL = defaultEntryTTL
	}
	if c.ConnTagsExpirationPeriod <= 0 {
		log.Warnf("invalid %s.expiration_period %s, using default %s", connTagsNS, c.ConnTagsExpirationPeriod, defaultExpirationPeriod)
		c.ConnTagsExpirationPeriod = defaultExpirationPeriod
	}
	if c.MaxTrackedConnections < 0 {
		log.Warnf("invalid %s.max_tracked_connections %d, disabling the limit", connTagsNS, c.MaxTrackedConnections)
		c.MaxTrackedConnections = 0
	}
	c.ConnTagsShardCount = normalizeShardCount(c.ConnTagsShardCount)

	return c
}

// getDuration reads a duration given either as a Go duration string ("90s")
// or as a number of seconds
func getDuration(cfg *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := cfg.Get(key)
	if s, ok := raw.(string); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}

	seconds, err := cast.ToInt64E(raw)
	if err != nil {
		log.Warnf("invalid duration %v for %s, using default %s", raw, key, fallback)
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func normalizeShardCount(n int) int {
	switch {
	case n <= 0:
		log.Warnf("invalid %s.shard_count %d, using default %d", connTagsNS, n, defaultShardCount)
		return defaultShardCount
	case n > maxShardCount:
		log.Warnf("%s.shard_count %d is above the maximum, using %d", connTagsNS, n, maxShardCount)
		return maxShardCount
	}
	// round up to the next power of two
	return 1 << bits.Len(uint(n-1))
}

func join(pieces ...string) string {
	return strings.Join(pieces, ".")
}
