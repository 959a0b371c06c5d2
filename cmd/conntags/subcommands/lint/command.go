// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package lint implements 'conntags lint'.
package lint

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/DataDog/conntags/cmd/conntags/command"
	"github.com/DataDog/conntags/pkg/network/tags"
	"github.com/DataDog/conntags/pkg/util/fxutil"
)

var errLintFailed = errors.New("vocabulary lint failed")

// cliParams are the command-line arguments for this subcommand
type cliParams struct {
	*command.GlobalParams

	// files are the vocabulary files to check
	files []string
	// standalone skips the compatibility check against the built-in vocabulary
	standalone bool
}

// Commands returns a slice of subcommands for the 'conntags' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{
		GlobalParams: globalParams,
	}
	cmd := &cobra.Command{
		Use:   "lint <file.yaml> [<file.yaml>...]",
		Short: "Validate tag vocabulary files",
		Long: `Validate tag vocabulary files: every tag needs a unique name and a unique
bit below 64. Unless --standalone is set, a vocabulary must also be an
additive change of the built-in vocabulary, as tag bits are never reused.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cliParams.files = args
			return fxutil.OneShot(lintFiles,
				fx.Supply(cliParams),
				command.Bundle(globalParams),
			)
		},
	}
	cmd.Flags().BoolVar(&cliParams.standalone, "standalone", false, "do not check compatibility with the built-in vocabulary")

	return []*cobra.Command{cmd}
}

func lintFiles(params *cliParams) error {
	return lint(color.Output, params.files, params.standalone)
}

func lint(w io.Writer, files []string, standalone bool) error {
	failed := false
	for _, path := range files {
		vocabulary, err := tags.LoadVocabularyFile(path)
		if err == nil && !standalone {
			err = tags.CheckCompatible(tags.Default(), vocabulary)
		}

		if err != nil {
			failed = true
			fmt.Fprintf(w, "%s: %s\n", path, color.RedString("FAILED"))
			for _, e := range flatten(err) {
				fmt.Fprintf(w, "  - %s\n", e)
			}
			continue
		}
		fmt.Fprintf(w, "%s: %s (%d tags)\n", path, color.GreenString("OK"), vocabulary.Len())
	}

	if failed {
		return errLintFailed
	}
	return nil
}

func flatten(err error) []error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.WrappedErrors()
	}
	return []error{err}
}
