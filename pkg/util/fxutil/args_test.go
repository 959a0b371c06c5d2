// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package fxutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestDelayedFxInvocationNoReturn(t *testing.T) {
	var got string
	fn := func(str string) {
		got = str
	}
	delayed := newDelayedFxInvocation(fn)

	app := fxtest.New(t,
		fx.Provide(func() string { return "a string" }),
		delayed.option(),
	)
	defer app.RequireStart().RequireStop()

	require.Equal(t, got, "") // not gotten yet
	require.NoError(t, delayed.call())
	require.Equal(t, got, "a string")
}

func TestDelayedFxInvocationErrorReturn(t *testing.T) {
	var got string
	fn := func(str string) error {
		got = str
		return errors.New("uhoh")
	}
	delayed := newDelayedFxInvocation(fn)

	app := fxtest.New(t,
		fx.Provide(func() string { return "a string" }),
		delayed.option(),
	)
	defer app.RequireStart().RequireStop()

	require.Equal(t, got, "")
	require.ErrorContains(t, delayed.call(), "uhoh")
	require.Equal(t, got, "a string")
}

func TestDelayedFxInvocationCalledBeforeStart(t *testing.T) {
	delayed := newDelayedFxInvocation(func(string) {})
	require.Error(t, delayed.call())
}

func TestNewDelayedFxInvocationRejectsBadFunctions(t *testing.T) {
	require.Panics(t, func() { newDelayedFxInvocation("not a function") })
	require.Panics(t, func() { newDelayedFxInvocation(func() int { return 0 }) })
}

func TestOneShot(t *testing.T) {
	var got string
	err := OneShot(
		func(str string) { got = str },
		fx.Provide(func() string { return "a string" }),
	)
	require.NoError(t, err)
	require.Equal(t, "a string", got)
}

func TestOneShotError(t *testing.T) {
	err := OneShot(func() error { return errors.New("uhoh") })
	require.ErrorContains(t, err, "uhoh")
}

func TestComponentName(t *testing.T) {
	m := Component(fx.Provide(func() string { return "" }))
	require.Equal(t, "github.com/DataDog/conntags/pkg/util/fxutil", m.Name)
}
