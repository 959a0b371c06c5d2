// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package decode implements 'conntags decode'.
package decode

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/DataDog/conntags/cmd/conntags/command"
	"github.com/DataDog/conntags/pkg/network/tags"
	"github.com/DataDog/conntags/pkg/util/fxutil"
	"github.com/DataDog/conntags/pkg/util/log"
)

// cliParams are the command-line arguments for this subcommand
type cliParams struct {
	*command.GlobalParams

	// args are the masks to decode
	args []string
}

// Commands returns a slice of subcommands for the 'conntags' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{
		GlobalParams: globalParams,
	}
	cmd := &cobra.Command{
		Use:   "decode <mask> [<mask>...]",
		Short: "Decode raw tag masks",
		Long: `Decode tag masks, as reported by the kernel probes, into report strings.
Masks are given in decimal, or in hexadecimal with a 0x prefix.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cliParams.args = args
			return fxutil.OneShot(decodeMasks,
				fx.Supply(cliParams),
				command.Bundle(globalParams),
			)
		},
	}

	return []*cobra.Command{cmd}
}

func decodeMasks(params *cliParams, vocabulary *tags.Vocabulary) error {
	return decode(color.Output, color.Error, vocabulary, params.args)
}

// decode prints the report strings of each mask to w and the bits without a
// definition to errw
func decode(w, errw io.Writer, vocabulary *tags.Vocabulary, masks []string) error {
	sets := make([]tags.Set, 0, len(masks))
	for _, raw := range masks {
		mask, err := strconv.ParseUint(raw, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid tag mask %q: %w", raw, err)
		}
		sets = append(sets, tags.Set(mask))
	}

	for _, s := range sets {
		names := vocabulary.Names(s)
		if len(names) == 0 {
			fmt.Fprintf(w, "%s: %s\n", s, color.YellowString("(none)"))
		} else {
			fmt.Fprintf(w, "%s: %s\n", s, strings.Join(names, " "))
		}

		if unknown := s &^ vocabulary.Defined(); !unknown.IsEmpty() {
			_ = log.Warnf("mask %s has bits without a tag definition: %s", s, unknown)
			fmt.Fprintln(errw, color.RedString("  unknown bits: %s", unknown))
		}
	}
	return nil
}
