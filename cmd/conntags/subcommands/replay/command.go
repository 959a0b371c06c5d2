// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package replay implements 'conntags replay'.
package replay

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/DataDog/conntags/cmd/conntags/command"
	conntagsdef "github.com/DataDog/conntags/comp/network/conntags/def"
	conntagsfx "github.com/DataDog/conntags/comp/network/conntags/fx"
	"github.com/DataDog/conntags/pkg/network/config"
	"github.com/DataDog/conntags/pkg/network/encoding/marshal"
	libtelemetry "github.com/DataDog/conntags/pkg/network/protocols/telemetry"
	"github.com/DataDog/conntags/pkg/network/tags"
	"github.com/DataDog/conntags/pkg/util/fxutil"
	"github.com/DataDog/conntags/pkg/util/log"
)

// cliParams are the command-line arguments for this subcommand
type cliParams struct {
	*command.GlobalParams

	// eventsFile is the event file to replay, - for stdin
	eventsFile string
	format     string
	telemetry  bool
}

// Commands returns a slice of subcommands for the 'conntags' command.
func Commands(globalParams *command.GlobalParams) []*cobra.Command {
	cliParams := &cliParams{
		GlobalParams: globalParams,
	}
	cmd := &cobra.Command{
		Use:   "replay <events-file>",
		Short: "Replay connection events against the connection tag store",
		Long: `Replay a file of connection events (track, observe, remove; one JSON object
per line) against a connection tag store configured like system-probe, then
print the tags of the connections left in the store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cliParams.eventsFile = args[0]
			return fxutil.OneShot(replay,
				fx.Supply(cliParams),
				command.Bundle(globalParams),
				conntagsfx.Module(),
			)
		},
	}
	cmd.Flags().StringVarP(&cliParams.format, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&cliParams.telemetry, "telemetry", false, "print the store telemetry in the Prometheus text format after the replay")

	return []*cobra.Command{cmd}
}

func replay(params *cliParams, cfg *config.Config, store conntagsdef.Component, vocabulary *tags.Vocabulary) error {
	if !cfg.ConnTagsEnabled {
		return fmt.Errorf("connection tags are disabled, set network_config.conn_tags.enabled to replay events")
	}

	var r io.Reader = os.Stdin
	if params.eventsFile != "-" {
		f, err := os.Open(params.eventsFile)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	if err := run(os.Stdout, r, params.format, store, vocabulary); err != nil {
		return err
	}
	if params.telemetry {
		return writeTelemetry(os.Stdout)
	}
	return nil
}

func run(w io.Writer, r io.Reader, format string, store conntagsdef.Component, vocabulary *tags.Vocabulary) error {
	var marshaler marshal.Marshaler
	switch format {
	case "json":
		marshaler = marshal.GetMarshaler(marshal.ContentTypeJSON)
	case "text":
		marshaler = marshal.GetMarshaler(marshal.ContentTypeText)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	events, err := readEvents(r)
	if err != nil {
		return fmt.Errorf("unable to read events: %w", err)
	}

	stats, err := apply(store, vocabulary, events)
	if err != nil {
		return err
	}
	log.Infof("replayed %d events: %d tracked, %d observed, %d dropped, %d removed",
		len(events), stats.tracked, stats.observed, stats.dropped, stats.removed)

	entries := store.Snapshot()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key.String() < entries[j].Key.String()
	})

	payload := marshal.NewTagsEncoder(vocabulary).Encode(entries)
	return marshaler.Marshal(payload, w)
}

func writeTelemetry(w io.Writer) error {
	registry := prometheus.NewRegistry()
	if err := registry.Register(libtelemetry.NewCollector()); err != nil {
		return err
	}

	families, err := registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
