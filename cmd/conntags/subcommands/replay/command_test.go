// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package replay

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/conntags/cmd/conntags/command"
	conntagsdef "github.com/DataDog/conntags/comp/network/conntags/def"
	"github.com/DataDog/conntags/pkg/network/config"
	"github.com/DataDog/conntags/pkg/network/conntags"
	"github.com/DataDog/conntags/pkg/network/encoding/marshal"
	"github.com/DataDog/conntags/pkg/network/tags"
	"github.com/DataDog/conntags/pkg/util/fxutil"
)

const events = `
# a TLS connection handled by OpenSSL
{"op":"track","laddr":"10.0.0.1:50000","raddr":"10.0.0.2:443","cookie":1}
{"op":"observe","laddr":"10.0.0.1:50000","raddr":"10.0.0.2:443","cookie":1,"tags":["LIBSSL"]}
{"op":"observe","laddr":"10.0.0.1:50000","raddr":"10.0.0.2:443","cookie":1,"mask":8}

# plain HTTP, closed
{"op":"track","laddr":"10.0.0.1:50001","raddr":"10.0.0.3:80"}
{"op":"observe","laddr":"10.0.0.1:50001","raddr":"10.0.0.3:80","tags":["http"]}
{"op":"remove","laddr":"10.0.0.1:50001","raddr":"10.0.0.3:80"}

# never tracked
{"op":"observe","laddr":"10.0.0.1:50002","raddr":"10.0.0.4:80","tags":["HTTP"]}

{"op":"track","type":"udp","laddr":"[fd00::1]:5353","raddr":"[fd00::2]:53"}
`

func newStore() conntagsdef.Component {
	return conntags.NewStore(&config.Config{
		ConnTagsEnabled:          true,
		ConnTagsEntryTTL:         time.Minute,
		ConnTagsExpirationPeriod: time.Minute,
		ConnTagsShardCount:       1,
	})
}

func TestCommand(t *testing.T) {
	fxutil.TestOneShotSubcommand(t,
		Commands(&command.GlobalParams{}),
		[]string{"replay", "--format", "json", "--telemetry", "events.jsonl"},
		replay,
		func(params *cliParams) {
			assert.Equal(t, "events.jsonl", params.eventsFile)
			assert.Equal(t, "json", params.format)
			assert.True(t, params.telemetry)
		})
}

func TestApply(t *testing.T) {
	parsed, err := readEvents(strings.NewReader(events))
	require.NoError(t, err)
	require.Len(t, parsed, 8)

	store := newStore()
	stats, err := apply(store, tags.Default(), parsed)
	require.NoError(t, err)
	assert.Equal(t, replayStats{tracked: 3, observed: 3, dropped: 1, removed: 1}, stats)

	key, err := parsed[0].key()
	require.NoError(t, err)
	assert.Equal(t, tags.Empty().With(tags.LibSSL).With(tags.TLS), store.Get(key))
	assert.Equal(t, 2, store.Len())
}

func TestApplyErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		event string
		err   string
	}{
		{"bad address", `{"op":"track","laddr":"10.0.0.1","raddr":"10.0.0.2:443"}`, "invalid laddr"},
		{"bad type", `{"op":"track","type":"sctp","laddr":"10.0.0.1:1","raddr":"10.0.0.2:443"}`, "invalid connection type"},
		{"bad op", `{"op":"close","laddr":"10.0.0.1:1","raddr":"10.0.0.2:443"}`, "unknown operation"},
		{"bad tag", `{"op":"observe","laddr":"10.0.0.1:1","raddr":"10.0.0.2:443","tags":["HTTP3"]}`, "unknown tag"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := readEvents(strings.NewReader(tc.event))
			require.NoError(t, err)

			_, err = apply(newStore(), tags.Default(), parsed)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 1")
			assert.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestReadEventsInvalidJSON(t *testing.T) {
	_, err := readEvents(strings.NewReader("\n{\"op\":"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestRunText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, strings.NewReader(events), "text", newStore(), tags.Default()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "10.0.0.1:50000")
	assert.Contains(t, lines[1], "tls.library:openssl,tls.connection:encrypted")
	assert.Contains(t, lines[2], "UDP")
	assert.Contains(t, lines[2], "[fd00::1]:5353")
}

func TestRunJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, strings.NewReader(events), "json", newStore(), tags.Default()))

	payload, err := marshal.Unmarshal(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, payload.Connections, 2)
	assert.Equal(t, []string{"tls.library:openssl", "tls.connection:encrypted"}, payload.Tags)
}

func TestRunUnknownFormat(t *testing.T) {
	err := run(&bytes.Buffer{}, strings.NewReader(events), "xml", newStore(), tags.Default())
	assert.ErrorContains(t, err, "unknown output format")
}

func TestWriteTelemetry(t *testing.T) {
	store := newStore()
	require.NoError(t, run(&bytes.Buffer{}, strings.NewReader(events), "text", store, tags.Default()))

	var buf bytes.Buffer
	require.NoError(t, writeTelemetry(&buf))
	assert.Contains(t, buf.String(), "# TYPE network_conn_tags_observed counter")
	assert.Contains(t, buf.String(), "network_conn_tags_tracked")
}
