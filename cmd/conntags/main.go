// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package main implements the conntags command, a toolbox around connection tags
package main

import (
	"os"

	"github.com/DataDog/conntags/cmd/conntags/command"
	"github.com/DataDog/conntags/cmd/conntags/subcommands"
	"github.com/DataDog/conntags/cmd/internal/runcmd"
)

func main() {
	os.Exit(runcmd.Run(command.MakeCommand(subcommands.ConntagsSubcommands())))
}
