package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edgedlt/tpsreport/hostinfo"
	"github.com/edgedlt/tpsreport/internal/metrics"
	"github.com/edgedlt/tpsreport/pipeline"
	"github.com/edgedlt/tpsreport/source"
)

type generateOptions struct {
	samplesDir  string
	outDir      string
	oldest      bool
	format      string
	noLatency   bool
	metricsFile string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <chain>",
		Short: "Generate the chart and report for a chain's latest run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root, opts, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.samplesDir, "samples-dir", "", "directory holding <chain>*.txt sample files")
	f.StringVar(&opts.outDir, "out", "", "directory receiving the <chain>_<timestamp> result directory")
	f.BoolVar(&opts.oldest, "oldest", false, "use the oldest matching sample file instead of the newest")
	f.StringVar(&opts.format, "format", "", "throughput chart format: png, svg or pdf")
	f.BoolVar(&opts.noLatency, "no-latency", false, "skip the latency chart")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format")
	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions, chain string) (err error) {
	s, reg, err := root.registry()
	if err != nil {
		return err
	}
	if _, err := reg.Resolve(chain); err != nil {
		return invalidChain(cmd, reg, err)
	}

	logger, err := root.logger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if opts.samplesDir != "" {
		s.Output.SamplesDir = opts.samplesDir
	}
	if opts.outDir != "" {
		s.Output.Dir = opts.outDir
	}
	if opts.format != "" {
		s.Chart.Format = opts.format
	}
	if opts.noLatency {
		disabled := false
		s.Latency.Enabled = &disabled
	}

	genOpts, err := s.Options()
	if err != nil {
		return err
	}
	genOpts = append(genOpts, pipeline.WithLogger(logger))

	if opts.metricsFile != "" {
		promReg := prometheus.NewRegistry()
		m, merr := metrics.New(promReg)
		if merr != nil {
			return merr
		}
		genOpts = append(genOpts, pipeline.WithMetrics(m))
		defer func() {
			if werr := prometheus.WriteToTextfile(opts.metricsFile, promReg); werr != nil {
				err = errors.Join(err, fmt.Errorf("write metrics: %w", werr))
			}
		}()
	}

	gen, err := pipeline.New(genOpts...)
	if err != nil {
		return err
	}

	policy := source.SelectNewest
	if opts.oldest {
		policy = source.SelectOldest
	}
	path, err := source.Locate(s.Output.SamplesDir, chain, policy)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)

	rc, err := source.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	artifacts, err := gen.Generate(cmd.Context(), pipeline.Input{
		ChainID: chain,
		RunName: source.RunName(path),
		Samples: rc,
		Env:     hostinfo.Probe(),
	})
	if err != nil {
		return err
	}

	dir, err := artifacts.Persist(s.Output.Dir)
	if err != nil {
		return err
	}
	logger.Debug("artifacts persisted", zap.String("dir", dir))
	fmt.Fprintf(cmd.OutOrStdout(), "Report saved as %s\n", filepath.Join(dir, artifacts.ReportFile))
	return nil
}
