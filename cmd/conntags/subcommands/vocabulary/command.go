// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package vocabulary implements 'conntags vocabulary'.
package vocabulary

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/DataDog/conntags/cmd/conntags/command"
	"github.com/DataDog/conntags/pkg/network/tags"
	"github.com/DataDog/conntags/pkg/util/fxutil"
)

// cliParams are the command-line arguments for this subcommand
type cliParams struct {
	*command.GlobalParams

	json bool
}

// Commands returns a slice of subcommands for the 'conntags' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{
		GlobalParams: globalParams,
	}
	cmd := &cobra.Command{
		Use:   "vocabulary",
		Short: "Print the tag vocabulary",
		Long:  `Print every tag of the vocabulary with its bit position, mask and report string.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return fxutil.OneShot(printVocabulary,
				fx.Supply(cliParams),
				command.Bundle(globalParams),
			)
		},
	}
	cmd.Flags().BoolVarP(&cliParams.json, "json", "j", false, "print the vocabulary as JSON")

	return []*cobra.Command{cmd}
}

func printVocabulary(params *cliParams, vocabulary *tags.Vocabulary) error {
	if params.json {
		return writeJSON(os.Stdout, vocabulary)
	}
	return writeTable(os.Stdout, vocabulary)
}

type jsonDefinition struct {
	Name        string `json:"name"`
	Bit         uint8  `json:"bit"`
	Mask        string `json:"mask"`
	Report      string `json:"report"`
	Description string `json:"description,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
}

func writeJSON(w io.Writer, vocabulary *tags.Vocabulary) error {
	defs := vocabulary.Definitions()
	out := make([]jsonDefinition, 0, len(defs))
	for _, d := range defs {
		out = append(out, jsonDefinition{
			Name:        d.Name,
			Bit:         d.Bit,
			Mask:        d.Tag().Mask().String(),
			Report:      d.Report,
			Description: d.Description,
			Deprecated:  d.Deprecated,
		})
	}

	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeTable(w io.Writer, vocabulary *tags.Vocabulary) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBIT\tMASK\tREPORT\tDESCRIPTION")
	for _, d := range vocabulary.Definitions() {
		description := d.Description
		if d.Deprecated {
			description = "(deprecated) " + description
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", d.Name, d.Bit, d.Tag().Mask(), d.Report, description)
	}
	return tw.Flush()
}
