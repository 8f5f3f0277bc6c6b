// Package settings loads the optional tpsreport settings file.
//
// The file is YAML (.yaml, .yml) or TOML (.toml). Every field is optional;
// unset fields take the defaults of the AnTPS report layout.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/edgedlt/tpsreport"
	"github.com/edgedlt/tpsreport/chart"
	"github.com/edgedlt/tpsreport/pipeline"
	"github.com/edgedlt/tpsreport/report"
)

// Settings is the decoded settings file.
type Settings struct {
	Chains  map[string]ChainSettings `yaml:"chains" toml:"chains"`
	Chart   ChartSettings            `yaml:"chart" toml:"chart"`
	Latency LatencySettings          `yaml:"latency" toml:"latency"`
	Report  ReportSettings           `yaml:"report" toml:"report"`
	Output  OutputSettings           `yaml:"output" toml:"output"`
}

// ChainSettings overrides a registered chain profile.
type ChainSettings struct {
	NetworkLabel   string `yaml:"network_label" toml:"network_label"`
	TheoreticalTPS int64  `yaml:"theoretical_tps" toml:"theoretical_tps"`
}

// ChartSettings sizes the throughput chart in inches.
type ChartSettings struct {
	WidthInches  float64 `yaml:"width_in" toml:"width_in"`
	HeightInches float64 `yaml:"height_in" toml:"height_in"`
	Format       string  `yaml:"format" toml:"format"`
}

// LatencySettings toggles and sizes the latency chart. Sizes are pixels.
type LatencySettings struct {
	Enabled *bool  `yaml:"enabled" toml:"enabled"`
	Width   int    `yaml:"width" toml:"width"`
	Height  int    `yaml:"height" toml:"height"`
	Format  string `yaml:"format" toml:"format"`
}

// ReportSettings fills the fixed parts of the report page.
type ReportSettings struct {
	TotalNodes   int    `yaml:"total_nodes" toml:"total_nodes"`
	Stylesheet   string `yaml:"stylesheet" toml:"stylesheet"`
	Architecture string `yaml:"architecture" toml:"architecture"`
	SourceURL    string `yaml:"source_url" toml:"source_url"`
}

// OutputSettings names the sample and result directories.
type OutputSettings struct {
	Dir        string `yaml:"dir" toml:"dir"`
	SamplesDir string `yaml:"samples_dir" toml:"samples_dir"`
}

// Default returns settings with every default applied.
func Default() *Settings {
	s := &Settings{}
	s.applyDefaults()
	return s
}

// Load reads, defaults and validates the settings file at path.
func Load(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Settings
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: %v", tpsreport.ErrConfig, path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(raw), &s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", tpsreport.ErrConfig, path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: %s: unknown key %s", tpsreport.ErrConfig, path, undecoded[0])
		}
	default:
		return nil, fmt.Errorf("%w: unsupported settings format %q", tpsreport.ErrConfig, ext)
	}

	s.applyDefaults()
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) applyDefaults() {
	if s.Chart.WidthInches == 0 {
		s.Chart.WidthInches = 6.4
	}
	if s.Chart.HeightInches == 0 {
		s.Chart.HeightInches = 4.8
	}
	if s.Chart.Format == "" {
		s.Chart.Format = chart.FormatPNG
	}

	latency := chart.DefaultLatencyOptions()
	if s.Latency.Enabled == nil {
		enabled := true
		s.Latency.Enabled = &enabled
	}
	if s.Latency.Width == 0 {
		s.Latency.Width = latency.Width
	}
	if s.Latency.Height == 0 {
		s.Latency.Height = latency.Height
	}
	if s.Latency.Format == "" {
		s.Latency.Format = latency.Format
	}

	composer := report.DefaultComposer()
	if s.Report.TotalNodes == 0 {
		s.Report.TotalNodes = composer.TotalNodes
	}
	if s.Report.Stylesheet == "" {
		s.Report.Stylesheet = composer.StylesheetRef
	}
	if s.Report.Architecture == "" {
		s.Report.Architecture = composer.ArchitectureRef
	}
	if s.Report.SourceURL == "" {
		s.Report.SourceURL = composer.SourceURL
	}

	if s.Output.Dir == "" {
		s.Output.Dir = "."
	}
	if s.Output.SamplesDir == "" {
		s.Output.SamplesDir = "."
	}
}

func (s *Settings) validate() error {
	if err := s.ChartOptions().Validate(); err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	if s.LatencyEnabled() {
		if err := s.LatencyOptions().Validate(); err != nil {
			return fmt.Errorf("latency: %w", err)
		}
	}
	if s.Report.TotalNodes < 0 {
		return fmt.Errorf("%w: report.total_nodes must be positive, got %d", tpsreport.ErrConfig, s.Report.TotalNodes)
	}
	if _, err := s.Registry(tpsreport.DefaultRegistry()); err != nil {
		return fmt.Errorf("chains: %w", err)
	}
	return nil
}

// ChartOptions returns the throughput chart options.
func (s *Settings) ChartOptions() chart.Options {
	return chart.Options{
		Width:  vg.Length(s.Chart.WidthInches) * vg.Inch,
		Height: vg.Length(s.Chart.HeightInches) * vg.Inch,
		Format: strings.ToLower(s.Chart.Format),
	}
}

// LatencyEnabled reports whether the latency chart is drawn.
func (s *Settings) LatencyEnabled() bool {
	return s.Latency.Enabled == nil || *s.Latency.Enabled
}

// LatencyOptions returns the latency chart options.
func (s *Settings) LatencyOptions() chart.LatencyOptions {
	return chart.LatencyOptions{
		Width:  s.Latency.Width,
		Height: s.Latency.Height,
		Format: strings.ToLower(s.Latency.Format),
	}
}

// Composer returns the report composer.
func (s *Settings) Composer() report.Composer {
	return report.Composer{
		TotalNodes:      s.Report.TotalNodes,
		StylesheetRef:   s.Report.Stylesheet,
		ArchitectureRef: s.Report.Architecture,
		SourceURL:       s.Report.SourceURL,
	}
}

// Registry applies the chain overrides to base.
func (s *Settings) Registry(base *tpsreport.Registry) (*tpsreport.Registry, error) {
	if len(s.Chains) == 0 {
		return base, nil
	}
	overrides := make(map[string]tpsreport.ProfileOverride, len(s.Chains))
	for id, c := range s.Chains {
		overrides[id] = tpsreport.ProfileOverride{NetworkLabel: c.NetworkLabel, TheoreticalTPS: c.TheoreticalTPS}
	}
	return base.WithOverrides(overrides)
}

// Options converts the settings into generator options.
func (s *Settings) Options() ([]pipeline.ConfigOption, error) {
	reg, err := s.Registry(tpsreport.DefaultRegistry())
	if err != nil {
		return nil, err
	}
	return []pipeline.ConfigOption{
		pipeline.WithRegistry(reg),
		pipeline.WithChartOptions(s.ChartOptions()),
		pipeline.WithLatencyChart(s.LatencyEnabled()),
		pipeline.WithLatencyOptions(s.LatencyOptions()),
		pipeline.WithComposer(s.Composer()),
	}, nil
}
