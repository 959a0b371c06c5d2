// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package subcommands contains the subcommands of the conntags command
package subcommands

import (
	"github.com/DataDog/conntags/cmd/conntags/command"
	"github.com/DataDog/conntags/cmd/conntags/subcommands/decode"
	"github.com/DataDog/conntags/cmd/conntags/subcommands/lint"
	"github.com/DataDog/conntags/cmd/conntags/subcommands/replay"
	"github.com/DataDog/conntags/cmd/conntags/subcommands/vocabulary"
)

// ConntagsSubcommands returns SubcommandFactories for the subcommands supported
// with the current build flags.
func ConntagsSubcommands() []command.SubcommandFactory {
	return []command.SubcommandFactory{
		vocabulary.Commands,
		decode.Commands,
		lint.Commands,
		replay.Commands,
	}
}
