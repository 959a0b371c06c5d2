// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package fxutil

import (
	"errors"
	"reflect"

	"go.uber.org/fx"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// delayedFxInvocation captures the arguments of a function from an fx.App
// when it starts, and calls the function later.
type delayedFxInvocation struct {
	fn   interface{}
	args []reflect.Value
}

func newDelayedFxInvocation(fn interface{}) *delayedFxInvocation {
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func {
		panic("delayedFxInvocation requires a function as its first argument")
	}

	// the function must return nothing or an error
	switch ft.NumOut() {
	case 0:
	case 1:
		if ft.Out(0) != errorType {
			panic("delayedFxInvocation function must return error or nothing")
		}
	default:
		panic("delayedFxInvocation function must return error or nothing")
	}

	return &delayedFxInvocation{fn: fn}
}

// option returns the fx.Option capturing the arguments of the function
func (i *delayedFxInvocation) option() fx.Option {
	ft := reflect.TypeOf(i.fn)

	in := make([]reflect.Type, ft.NumIn())
	for n := range in {
		in[n] = ft.In(n)
	}
	capture := reflect.MakeFunc(
		reflect.FuncOf(in, nil, false),
		func(args []reflect.Value) []reflect.Value {
			i.args = args
			return nil
		},
	)
	return fx.Invoke(capture.Interface())
}

// call calls the function with the captured arguments
func (i *delayedFxInvocation) call() error {
	if i.args == nil && reflect.TypeOf(i.fn).NumIn() > 0 {
		return errors.New("delayed function called before the app started")
	}

	res := reflect.ValueOf(i.fn).Call(i.args)
	if len(res) == 0 || res[0].IsNil() {
		return nil
	}
	return res[0].Interface().(error)
}
