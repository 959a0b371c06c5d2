// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package command implements the top-level `conntags` binary, including its subcommands.
package command

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"github.com/DataDog/conntags/pkg/config/setup"
	"github.com/DataDog/conntags/pkg/network/config"
	"github.com/DataDog/conntags/pkg/network/tags"
	"github.com/DataDog/conntags/pkg/util/log"
)

// GlobalParams contains the values of conntags-global Cobra flags.
//
// A pointer to this type is passed to SubcommandFactory's, but its contents
// are not valid until Cobra calls the subcommand's Run or RunE function.
type GlobalParams struct {
	// ConfFilePath holds the path to the system-probe configuration file
	ConfFilePath string

	// LogLevel overrides the log_level of the configuration
	LogLevel string

	// VocabularyFilePath holds the path of a vocabulary file replacing the
	// built-in vocabulary
	VocabularyFilePath string

	// NoColor disables colored output
	NoColor bool
}

// SubcommandFactory is a callable that will return a slice of subcommands.
type SubcommandFactory func(globalParams *GlobalParams) []*cobra.Command

// MakeCommand makes the top-level Cobra command for this app.
func MakeCommand(subcommandFactories []SubcommandFactory) *cobra.Command {
	globalParams := GlobalParams{}

	cmd := &cobra.Command{
		Use:   "conntags [command]",
		Short: "Inspect connection tags and their vocabulary",
		Long: `conntags decodes the protocol tags attached to network connections,
validates changes to the tag vocabulary and replays connection events
against the connection tag store.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if globalParams.NoColor {
				color.NoColor = true
			}
		},
	}

	registerGlobalFlags(cmd.PersistentFlags(), &globalParams)

	for _, sf := range subcommandFactories {
		for _, sc := range sf(&globalParams) {
			cmd.AddCommand(sc)
		}
	}

	return cmd
}

func registerGlobalFlags(pflags *pflag.FlagSet, globalParams *GlobalParams) {
	pflags.StringVarP(&globalParams.ConfFilePath, "cfgpath", "c", "", "path to the system-probe configuration file")
	pflags.StringVar(&globalParams.LogLevel, "log-level", "", "log level, overriding the configuration (trace, debug, info, warn, error)")
	pflags.StringVar(&globalParams.VocabularyFilePath, "vocabulary", "", "path to a YAML vocabulary file used instead of the built-in vocabulary")
	pflags.BoolVarP(&globalParams.NoColor, "no-color", "n", false, "disable color output")
}

// Bundle returns the fx options shared by all subcommands: the configuration
// is loaded and the logger set up before the subcommand runs, and the network
// configuration and tag vocabulary are provided.
func Bundle(globalParams *GlobalParams) fx.Option {
	return fx.Options(
		fx.Supply(globalParams),
		fx.Invoke(setupConfigAndLogger),
		fx.Provide(newNetworkConfig),
		fx.Provide(LoadVocabulary),
	)
}

func setupConfigAndLogger(globalParams *GlobalParams) error {
	if err := setup.LoadSystemProbe(globalParams.ConfFilePath); err != nil {
		return err
	}

	level := globalParams.LogLevel
	if level == "" {
		level = setup.SystemProbe().GetString("log_level")
	}
	return log.SetupConsoleLogger(level)
}

func newNetworkConfig() *config.Config {
	return config.New()
}

// LoadVocabulary returns the vocabulary selected by the global flags
func LoadVocabulary(globalParams *GlobalParams) (*tags.Vocabulary, error) {
	if globalParams.VocabularyFilePath == "" {
		return tags.Default(), nil
	}
	log.Debugf("loading tag vocabulary from %s", globalParams.VocabularyFilePath)
	return tags.LoadVocabularyFile(globalParams.VocabularyFilePath)
}
