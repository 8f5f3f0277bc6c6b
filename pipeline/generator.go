// Package pipeline turns one chain's sample stream into a chart and report.
//
// The stages run in order: resolve chain, parse, summarize, plan the axis,
// render charts, compose and render the report. Any failure aborts the run
// before an artifact exists.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/edgedlt/tpsreport"
	"github.com/edgedlt/tpsreport/chart"
	"github.com/edgedlt/tpsreport/internal/metrics"
	"github.com/edgedlt/tpsreport/report"
)

// DirTimeLayout formats the timestamp suffix of a result directory.
const DirTimeLayout = "20060102_150405"

// Input is one benchmark run to report on.
type Input struct {
	// ChainID selects the chain profile.
	ChainID string

	// RunName is the sample file name, used for the title and run params.
	RunName string

	// Samples is the sample stream.
	Samples io.Reader

	// Env describes the host the benchmark ran on.
	Env tpsreport.EnvironmentFacts
}

// Artifacts are the in-memory results of a successful run.
type Artifacts struct {
	Chain string

	// Dir is the result directory name, "<chain>_<YYYYmmdd_HHMMSS>".
	Dir string

	// Files maps file names inside Dir to their contents.
	Files map[string][]byte

	ReportFile string
	ChartFile  string

	Summary  tpsreport.BenchmarkSummary
	Plan     tpsreport.AxisPlan
	Document report.Document
}

// Generator runs the report pipeline.
type Generator struct {
	cfg    *Config
	logger *zap.Logger
}

// New creates a Generator with the given options.
func New(opts ...ConfigOption) (*Generator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, logger: cfg.Logger.Named("pipeline")}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() *Config {
	return g.cfg
}

// Generate runs every stage for in and returns the artifacts.
func (g *Generator) Generate(ctx context.Context, in Input) (*Artifacts, error) {
	a, err := g.generate(ctx, in)
	if err != nil {
		g.cfg.Metrics.RunFailed(failureKind(err))
		g.logger.Warn("report generation failed",
			zap.String("chain", in.ChainID),
			zap.String("run", in.RunName),
			zap.Error(err),
		)
		return nil, err
	}
	g.cfg.Metrics.ReportGenerated(a.Chain)
	return a, nil
}

func (g *Generator) generate(ctx context.Context, in Input) (*Artifacts, error) {
	profile, err := g.cfg.Registry.Resolve(in.ChainID)
	if err != nil {
		return nil, err
	}
	if in.Samples == nil {
		return nil, fmt.Errorf("%w: no sample stream", tpsreport.ErrEmptySampleSet)
	}

	start := time.Now()
	set, err := tpsreport.Parse(in.Samples)
	if err != nil {
		return nil, err
	}
	summary, err := tpsreport.Summarize(set)
	if err != nil {
		return nil, err
	}
	plan := tpsreport.PlanAxis(summary, profile)
	g.observe(metrics.StageParse, start)
	g.cfg.Metrics.SamplesParsed(set.Len())
	if plan.Scaled() {
		g.cfg.Metrics.ScaleBreak(profile.ID)
	}

	g.logger.Debug("samples summarized",
		zap.String("chain", profile.ID),
		zap.Int("samples", set.Len()),
		zap.Int64("ceiling", summary.ChartCeiling),
		zap.Int64("theoretical_tps", profile.TheoreticalTPS),
		zap.Bool("scaled", plan.Scaled()),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files := make(map[string][]byte)

	start = time.Now()
	chartFile := profile.ID + "_graph" + g.cfg.Chart.Extension()
	chartData, err := chart.RenderThroughput(set, summary, plan, g.cfg.Chart)
	if err != nil {
		return nil, fmt.Errorf("throughput chart: %w", err)
	}
	files[chartFile] = chartData
	g.observe(metrics.StageChart, start)

	var latencyFile string
	if g.cfg.Latency {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start = time.Now()
		latencyFile = profile.ID + "_latency" + g.cfg.LatencyOptions.Extension()
		latencyData, err := chart.RenderLatency(set, g.cfg.LatencyOptions)
		if err != nil {
			return nil, fmt.Errorf("latency chart: %w", err)
		}
		files[latencyFile] = latencyData
		g.observe(metrics.StageLatency, start)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	params, known := tpsreport.ExtractRunParams(in.RunName)
	composer := g.cfg.Composer
	composer.Now = g.cfg.Clock
	doc := composer.Compose(profile, in.Env, summary, chartFile, tpsreport.ClassifyTitle(in.RunName), params, known)
	doc.LatencyChartRef = latencyFile

	reportFile := "report_" + profile.ID + ".html"
	html, err := report.RenderBytes(doc)
	if err != nil {
		return nil, err
	}
	files[reportFile] = html
	g.observe(metrics.StageReport, start)

	a := &Artifacts{
		Chain:      profile.ID,
		Dir:        profile.ID + "_" + doc.GeneratedAt.Format(DirTimeLayout),
		Files:      files,
		ReportFile: reportFile,
		ChartFile:  chartFile,
		Summary:    summary,
		Plan:       plan,
		Document:   doc,
	}

	g.logger.Info("report generated",
		zap.String("chain", a.Chain),
		zap.String("dir", a.Dir),
		zap.Int("files", len(a.Files)),
		zap.Int64("max_tps", summary.MaxObservedTPS),
		zap.Int64("total_confirmed", summary.TotalConfirmedTx),
	)
	return a, nil
}

func (g *Generator) observe(stage string, start time.Time) {
	d := time.Since(start)
	g.cfg.Metrics.ObserveStage(stage, d)
	g.logger.Debug("stage complete", zap.String("stage", stage), zap.Duration("elapsed", d))
}

// Persist writes the artifacts into a new result directory under root and
// returns its path. Files are written to a hidden staging directory that is
// renamed into place once complete, so a failed write leaves nothing behind.
// If a.Dir is already taken, "_2", "_3", ... are appended.
func (a *Artifacts) Persist(root string) (string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", fmt.Errorf("create output root: %w", err)
	}
	staging, err := os.MkdirTemp(root, "."+a.Dir+".tmp-")
	if err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			os.RemoveAll(staging)
		}
	}()
	if err := os.Chmod(staging, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}

	names := make([]string, 0, len(a.Files))
	for name := range a.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := os.WriteFile(filepath.Join(staging, name), a.Files[name], 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
	}

	dir, err := commitDir(staging, root, a.Dir)
	if err != nil {
		return "", err
	}
	committed = true
	return dir, nil
}

// maxDirAttempts bounds the "_N" suffixes tried for one result directory.
const maxDirAttempts = 100

// commitDir renames staging to the first free name among root/name,
// root/name_2, root/name_3 and so on.
func commitDir(staging, root, name string) (string, error) {
	for n := 1; n <= maxDirAttempts; n++ {
		candidate := name
		if n > 1 {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		dir := filepath.Join(root, candidate)
		if _, err := os.Lstat(dir); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("check result dir: %w", err)
		}
		if err := os.Rename(staging, dir); err != nil {
			return "", fmt.Errorf("commit result dir: %w", err)
		}
		return dir, nil
	}
	return "", fmt.Errorf("result dir %s: %d names already taken", name, maxDirAttempts)
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, tpsreport.ErrUnknownChain):
		return metrics.KindUnknownChain
	case errors.Is(err, tpsreport.ErrMalformedSample):
		return metrics.KindMalformed
	case errors.Is(err, tpsreport.ErrEmptySampleSet):
		return metrics.KindEmpty
	case errors.Is(err, report.ErrIncompleteDocument):
		return metrics.KindRender
	default:
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return metrics.KindIO
		}
		return metrics.KindRender
	}
}
