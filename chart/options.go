// Package chart renders benchmark charts.
//
// RenderThroughput draws the dual-axis bar chart of observed TPS and
// confirmed transactions per block with gonum/plot. RenderLatency draws the
// per-block latency trend with go-chart.
package chart

import (
	"fmt"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/edgedlt/tpsreport"
)

// Supported output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatPDF = "pdf"
)

// Options configures the throughput chart.
type Options struct {
	Width  vg.Length
	Height vg.Length

	// Format is one of FormatPNG, FormatSVG or FormatPDF.
	Format string
}

// DefaultOptions returns a 6.4x4.8 inch PNG.
func DefaultOptions() Options {
	return Options{
		Width:  6.4 * vg.Inch,
		Height: 4.8 * vg.Inch,
		Format: FormatPNG,
	}
}

// Validate checks the chart size and format.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: chart size must be positive, got %vx%v", tpsreport.ErrConfig, o.Width, o.Height)
	}
	switch o.Format {
	case FormatPNG, FormatSVG, FormatPDF:
		return nil
	default:
		return fmt.Errorf("%w: unsupported chart format %q", tpsreport.ErrConfig, o.Format)
	}
}

// Extension returns the file extension for the configured format.
func (o Options) Extension() string {
	return "." + strings.ToLower(o.Format)
}

// LatencyOptions configures the latency trend chart. Sizes are in pixels.
type LatencyOptions struct {
	Width  int
	Height int

	// Format is FormatPNG or FormatSVG.
	Format string
}

// DefaultLatencyOptions returns a 1024x320 PNG.
func DefaultLatencyOptions() LatencyOptions {
	return LatencyOptions{Width: 1024, Height: 320, Format: FormatPNG}
}

// Validate checks the latency chart size and format.
func (o LatencyOptions) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: latency chart size must be positive, got %dx%d", tpsreport.ErrConfig, o.Width, o.Height)
	}
	if o.Format != FormatPNG && o.Format != FormatSVG {
		return fmt.Errorf("%w: unsupported latency chart format %q", tpsreport.ErrConfig, o.Format)
	}
	return nil
}

// Extension returns the file extension for the configured format.
func (o LatencyOptions) Extension() string {
	return "." + strings.ToLower(o.Format)
}
