// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package runcmd runs a cobra command and turns its outcome into an exit code
package runcmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/DataDog/conntags/pkg/util/log"
)

// Run executes a cobra command and handles the results. It returns the exit
// code of the process.
func Run(cmd *cobra.Command) int {
	defer log.Flush()

	// cobra prints the error itself unless told otherwise
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err != nil {
		displayError(err)
		return -1
	}
	return 0
}

func displayError(err error) {
	if color.NoColor {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return
	}
	fmt.Fprintln(color.Error, color.RedString("Error:"), err)
}
