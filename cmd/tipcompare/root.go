package main

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/ahrav/go-tipstat/infrastructure/logging"
	"github.com/ahrav/go-tipstat/internal/application"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "tipcompare",
		Short:        "Compare average tips of smokers and non-smokers",
		Long:         "tipcompare splits tipping records by smoker status, compares the group means and optionally runs a Welch t-test.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newCompareCmd(opts))
	cmd.AddCommand(newSampleCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// logger returns the CLI logger writing to the command's error stream.
func (o *rootOptions) logger(cmd *cobra.Command) *log.Logger {
	return logging.New(cmd.ErrOrStderr(), o.verbose)
}

// loadConfig reads --config when given and falls back to the defaults.
func (o *rootOptions) loadConfig() (application.Config, error) {
	if o.configPath == "" {
		return application.DefaultConfig(), nil
	}
	return application.LoadConfig(o.configPath)
}
