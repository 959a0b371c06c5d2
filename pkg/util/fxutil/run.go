// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package fxutil

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

const appTimeout = 30 * time.Second

// OneShot runs the given function in an fx.App using the supplied options.
// The function's arguments are supplied by fx and can be any provided type.
// The function must return `error` or nothing.
//
// The resulting app starts all components, calls the function, and then
// stops all components.
func OneShot(oneShotFunc interface{}, opts ...fx.Option) error {
	if fxAppTestOverride != nil {
		return fxAppTestOverride(oneShotFunc, opts)
	}

	delayed := newDelayedFxInvocation(oneShotFunc)
	app := fx.New(append(opts, delayed.option(), fxBase())...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()

	if err := app.Start(startCtx); err != nil {
		return errors.Join(err, stopApp(app))
	}

	// call the function, stopping the app even if it fails
	err := delayed.call()
	return errors.Join(err, stopApp(app))
}

func stopApp(app *fx.App) error {
	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	return app.Stop(stopCtx)
}

// fxBase holds the options shared by every app
func fxBase() fx.Option {
	return fx.Options(
		fx.StartTimeout(appTimeout),
		fx.StopTimeout(appTimeout),
		fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
	)
}
