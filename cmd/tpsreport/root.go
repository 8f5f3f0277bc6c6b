package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edgedlt/tpsreport"
	"github.com/edgedlt/tpsreport/internal/settings"
)

// errReported marks an error whose message was already printed.
var errReported = errors.New("reported")

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "tpsreport",
		Short:         "Blockchain TPS benchmark report generator",
		Long:          "tpsreport turns the per-block samples of a TPS benchmark run into a throughput chart and an HTML report.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "settings file (.yaml, .yml or .toml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "development logging")

	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newChainsCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	return cmd
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	if o.verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (o *rootOptions) settings() (*settings.Settings, error) {
	if o.configPath == "" {
		return settings.Default(), nil
	}
	return settings.Load(o.configPath)
}

func (o *rootOptions) registry() (*settings.Settings, *tpsreport.Registry, error) {
	s, err := o.settings()
	if err != nil {
		return nil, nil, err
	}
	reg, err := s.Registry(tpsreport.DefaultRegistry())
	if err != nil {
		return nil, nil, err
	}
	return s, reg, nil
}

// invalidChain prints the supported networks for an unknown chain id.
func invalidChain(cmd *cobra.Command, reg *tpsreport.Registry, cause error) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Invalid Input Detected  Supported Blockchain Networks: %s\n", strings.Join(reg.IDs(), "/"))
	return fmt.Errorf("%w: %w", errReported, cause)
}
