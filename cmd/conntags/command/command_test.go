// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configmock "github.com/DataDog/conntags/pkg/config/mock"
	"github.com/DataDog/conntags/pkg/network/tags"
)

func TestMakeCommand(t *testing.T) {
	var got *GlobalParams
	factory := func(globalParams *GlobalParams) []*cobra.Command {
		return []*cobra.Command{{
			Use: "noop",
			RunE: func(*cobra.Command, []string) error {
				got = globalParams
				return nil
			},
		}}
	}

	cmd := MakeCommand([]SubcommandFactory{factory})
	cmd.SetArgs([]string{"-c", "/etc/system-probe.yaml", "--log-level", "debug", "--vocabulary", "v.yaml", "noop"})
	require.NoError(t, cmd.Execute())

	require.NotNil(t, got)
	assert.Equal(t, "/etc/system-probe.yaml", got.ConfFilePath)
	assert.Equal(t, "debug", got.LogLevel)
	assert.Equal(t, "v.yaml", got.VocabularyFilePath)
}

func TestLoadVocabulary(t *testing.T) {
	v, err := LoadVocabulary(&GlobalParams{})
	require.NoError(t, err)
	assert.Equal(t, tags.Default(), v)

	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tags:\n  - name: QUIC\n    bit: 7\n"), 0o600))

	v, err = LoadVocabulary(&GlobalParams{VocabularyFilePath: path})
	require.NoError(t, err)
	pos, err := v.PositionOf("quic")
	require.NoError(t, err)
	assert.Equal(t, tags.Tag(7), pos)
}

func TestSetupConfigAndLogger(t *testing.T) {
	configmock.NewSystemProbe(t)

	path := filepath.Join(t.TempDir(), "system-probe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network_config:\n  conn_tags:\n    auto_create: true\n"), 0o600))

	require.NoError(t, setupConfigAndLogger(&GlobalParams{ConfFilePath: path, LogLevel: "warn"}))
	assert.True(t, newNetworkConfig().ConnTagsAutoCreate)

	assert.Error(t, setupConfigAndLogger(&GlobalParams{ConfFilePath: filepath.Join(t.TempDir(), "missing.yaml")}))
}
