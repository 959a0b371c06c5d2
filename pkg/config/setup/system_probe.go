// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package setup

import (
	"strings"

	"github.com/DataDog/viper"
)

const (
	netNS      = "network_config"
	connTagsNS = netNS + ".conn_tags"

	defaultConnTagsEntryTTL              = "10m"
	defaultConnTagsExpirationPeriod      = "1m"
	defaultConnTagsMaxTrackedConnections = 65536
	defaultConnTagsShardCount            = 64
)

// InitSystemProbeConfig declares all the configuration values normally read from system-probe.yaml.
func InitSystemProbeConfig(cfg *viper.Viper) {
	BindEnvAndSetDefault(cfg, "log_level", "info", "DD_LOG_LEVEL", "LOG_LEVEL")

	// connection tag store
	BindEnvAndSetDefault(cfg, join(connTagsNS, "enabled"), true)
	BindEnvAndSetDefault(cfg, join(connTagsNS, "auto_create"), false, "DD_NETWORK_CONFIG_CONN_TAGS_AUTO_CREATE", "DD_CONN_TAGS_AUTO_CREATE")
	// durations accept Go duration strings or a number of seconds
	BindEnvAndSetDefault(cfg, join(connTagsNS, "entry_ttl"), defaultConnTagsEntryTTL)
	BindEnvAndSetDefault(cfg, join(connTagsNS, "expiration_period"), defaultConnTagsExpirationPeriod)
	BindEnvAndSetDefault(cfg, join(connTagsNS, "max_tracked_connections"), defaultConnTagsMaxTrackedConnections)
	BindEnvAndSetDefault(cfg, join(connTagsNS, "shard_count"), defaultConnTagsShardCount)
}

// BindEnvAndSetDefault sets the default value of key and binds it to the given
// environment variables. Without explicit variables, key is bound to
// DD_<KEY> with dots replaced by underscores.
func BindEnvAndSetDefault(cfg *viper.Viper, key string, val interface{}, env ...string) {
	cfg.SetDefault(key, val)
	if len(env) == 0 {
		env = []string{"DD_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
	}
	_ = cfg.BindEnv(append([]string{key}, env...)...)
}

func join(pieces ...string) string {
	return strings.Join(pieces, ".")
}
