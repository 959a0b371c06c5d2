// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package fxutil provides utilities to run fx applications and declare components
package fxutil

import (
	"runtime"
	"strings"

	"go.uber.org/fx"
)

// Module is an fx.Module for a component
type Module struct {
	fx.Option
	Name string
}

// Component declares the fx options of a component. The module is named
// after the package of the caller.
func Component(opts ...fx.Option) Module {
	name := callerPackage(2)
	return Module{
		Option: fx.Module(name, opts...),
		Name:   name,
	}
}

// callerPackage returns the import path of the package skip frames up the stack
func callerPackage(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc).Name()

	// github.com/org/repo/pkg.Func or github.com/org/repo/pkg.(*T).Method
	slash := strings.LastIndex(fn, "/")
	if dot := strings.Index(fn[slash+1:], "."); dot >= 0 {
		return fn[:slash+1+dot]
	}
	return fn
}
