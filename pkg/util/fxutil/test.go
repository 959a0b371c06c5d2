// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package fxutil

import (
	"reflect"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

// TestOneShotSubcommand runs a subcommand with the given arguments and checks
// that it calls OneShot with expectedOneShotFunc, without running it. The
// verifyFn is then invoked with the fx-provided arguments of that function,
// so tests can assert on the parsed flags and params.
func TestOneShotSubcommand(
	t testing.TB,
	subcommands []*cobra.Command,
	commandline []string,
	expectedOneShotFunc interface{},
	verifyFn interface{},
) {
	var oneShotCalled bool
	fxAppTestOverride = func(oneShotFunc interface{}, opts []fx.Option) error {
		oneShotCalled = true
		require.Equal(t, funcName(expectedOneShotFunc), funcName(oneShotFunc), "got a different oneshot function")

		delayed := newDelayedFxInvocation(verifyFn)
		app := fx.New(append(opts, delayed.option(), fx.NopLogger)...)
		require.NoError(t, app.Err())
		return delayed.call()
	}
	defer func() { fxAppTestOverride = nil }()

	cmd := &cobra.Command{Use: "test"}
	for _, c := range subcommands {
		cmd.AddCommand(c)
	}
	cmd.SetArgs(commandline)

	require.NoError(t, cmd.Execute())
	require.True(t, oneShotCalled, "fxutil.OneShot wasn't called")
}

func funcName(fn interface{}) string {
	return runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
}
