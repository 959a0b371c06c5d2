// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package tags

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCompatible(t *testing.T) {
	t.Run("additive", func(t *testing.T) {
		next, err := Default().Extend(Definition{Name: "HTTP2", Bit: 4, Report: "protocol:http2"})
		require.NoError(t, err)
		assert.NoError(t, CheckCompatible(Default(), next))
	})

	t.Run("deprecated tags are kept", func(t *testing.T) {
		defs := Default().Definitions()
		defs[1].Deprecated = true
		next, err := NewVocabulary(defs...)
		require.NoError(t, err)
		assert.NoError(t, CheckCompatible(Default(), next))
	})

	t.Run("removed", func(t *testing.T) {
		defs := Default().Definitions()
		next, err := NewVocabulary(defs[:3]...)
		require.NoError(t, err)

		err = CheckCompatible(Default(), next)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIncompatible))
		assert.Contains(t, err.Error(), "TLS (bit 3) was removed")
	})

	t.Run("moved and reused", func(t *testing.T) {
		next, err := NewVocabulary(
			Definition{Name: "HTTP", Bit: 0, Report: "protocol:http"},
			Definition{Name: "GRPC", Bit: 1, Report: "protocol:grpc"},
			Definition{Name: "LIBSSL", Bit: 2, Report: "tls.library:openssl"},
			Definition{Name: "TLS", Bit: 3, Report: "tls.connection:encrypted"},
			Definition{Name: "LIBGNUTLS", Bit: 5, Report: "tls.library:gnutls"},
		)
		require.NoError(t, err)

		err = CheckCompatible(Default(), next)
		var merr *multierror.Error
		require.ErrorAs(t, err, &merr)
		require.Len(t, merr.Errors, 1)
		assert.Contains(t, merr.Errors[0].Error(), "bit 1 was reused by GRPC")
	})

	t.Run("renamed report", func(t *testing.T) {
		defs := Default().Definitions()
		defs[0].Report = "http"
		next, err := NewVocabulary(defs...)
		require.NoError(t, err)
		assert.ErrorIs(t, CheckCompatible(Default(), next), ErrIncompatible)
	})
}
