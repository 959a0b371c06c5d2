// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package decode

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataDog/conntags/cmd/conntags/command"
	"github.com/DataDog/conntags/pkg/network/tags"
	"github.com/DataDog/conntags/pkg/util/fxutil"
)

func TestCommand(t *testing.T) {
	fxutil.TestOneShotSubcommand(t,
		Commands(&command.GlobalParams{}),
		[]string{"decode", "0x9", "4"},
		decodeMasks,
		func(params *cliParams) {
			assert.Equal(t, []string{"0x9", "4"}, params.args)
		})
}

func TestDecode(t *testing.T) {
	color.NoColor = true

	var buf, errBuf bytes.Buffer
	require.NoError(t, decode(&buf, &errBuf, tags.Default(), []string{"0x9", "6", "0", "0x30"}))

	expected := "" +
		"0x9: protocol:http tls.connection:encrypted\n" +
		"0x6: tls.library:gnutls tls.library:openssl\n" +
		"0x0: (none)\n" +
		"0x30: (none)\n"
	assert.Equal(t, expected, buf.String())
	assert.Equal(t, "  unknown bits: 0x30\n", errBuf.String())
}

func TestDecodeInvalidMask(t *testing.T) {
	var buf, errBuf bytes.Buffer
	err := decode(&buf, &errBuf, tags.Default(), []string{"0x1", "http"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"http"`)
	// nothing is printed when an argument is invalid
	assert.Empty(t, buf.String())
	assert.Empty(t, errBuf.String())
}
