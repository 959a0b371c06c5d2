// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package conntagsimpl provides the implementation of the connection tag store component
package conntagsimpl

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	conntagsdef "github.com/DataDog/conntags/comp/network/conntags/def"
	"github.com/DataDog/conntags/pkg/network/config"
	"github.com/DataDog/conntags/pkg/network/conntags"
	"github.com/DataDog/conntags/pkg/network/tags"
	"github.com/DataDog/conntags/pkg/network/types"
	"github.com/DataDog/conntags/pkg/util/log"
)

// Requires defines the dependencies of the component
type Requires struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Clock  clock.Clock `optional:"true"`
}

// Provides defines the output of the component
type Provides struct {
	fx.Out

	Comp conntagsdef.Component
}

// NewComponent creates the connection tag store. A disabled store accepts
// every call and keeps nothing.
func NewComponent(reqs Requires) Provides {
	if !reqs.Config.ConnTagsEnabled {
		log.Infof("connection tags disabled")
		return Provides{Comp: noopStore{}}
	}

	var opts []conntags.Option
	if reqs.Clock != nil {
		opts = append(opts, conntags.WithClock(reqs.Clock))
	}
	store := conntags.NewStore(reqs.Config, opts...)

	reqs.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			store.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			store.Stop()
			return nil
		},
	})
	return Provides{Comp: store}
}

type noopStore struct{}

func (noopStore) Track(types.ConnectionKey) bool                { return false }
func (noopStore) Observe(types.ConnectionKey, tags.Tag) bool    { return false }
func (noopStore) ObserveSet(types.ConnectionKey, tags.Set) bool { return false }
func (noopStore) Get(types.ConnectionKey) tags.Set              { return tags.Empty() }
func (noopStore) Remove(types.ConnectionKey)                    {}
func (noopStore) Snapshot() []conntags.Entry                    { return nil }
func (noopStore) Len() int                                      { return 0 }

var (
	_ conntagsdef.Component = (*conntags.Store)(nil)
	_ conntagsdef.Component = noopStore{}
)
