// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package fx provides the fx module for the connection tag store component
package fx

import (
	"go.uber.org/fx"

	"github.com/DataDog/conntags/comp/network/conntags/conntagsimpl"
	"github.com/DataDog/conntags/pkg/util/fxutil"
)

// Module defines the fx options for this component
func Module() fxutil.Module {
	return fxutil.Component(
		fx.Provide(conntagsimpl.NewComponent),
	)
}
