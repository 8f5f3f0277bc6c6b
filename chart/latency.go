package chart

import (
	"bytes"
	"fmt"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/edgedlt/tpsreport"
)

var latencyColor = drawing.Color{R: 31, G: 119, B: 180, A: 255}

func latencyStyle() chart.Style {
	return chart.Style{
		StrokeColor: latencyColor,
		StrokeWidth: 2,
		DotColor:    latencyColor,
		DotWidth:    3,
	}
}

// RenderLatency draws block latency against block height as a line chart.
func RenderLatency(set tpsreport.SampleSet, opts LatencyOptions) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: nothing to chart", tpsreport.ErrEmptySampleSet)
	}

	records := set.Records()
	xs := make([]float64, len(records))
	ys := make([]float64, len(records))
	minX, maxX := float64(records[0].BlockHeight), float64(records[0].BlockHeight)
	var maxY float64
	for i, r := range records {
		xs[i] = float64(r.BlockHeight)
		ys[i] = float64(r.Latency)
		minX = min(minX, xs[i])
		maxX = max(maxX, xs[i])
		maxY = max(maxY, ys[i])
	}

	// go-chart rejects zero-width ranges, so a single block or a flat zero
	// latency still gets padded bounds.
	xRange := &chart.ContinuousRange{Min: minX - 1, Max: maxX + 1}
	yRange := &chart.ContinuousRange{Min: 0, Max: maxY*1.1 + 1}

	ch := chart.Chart{
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 12}},
		XAxis: chart.XAxis{
			Name:           xAxisLabel,
			Range:          xRange,
			ValueFormatter: blockFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "Latency",
			Range: yRange,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Latency", XValues: xs, YValues: ys, Style: latencyStyle()},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	provider := chart.PNG
	if opts.Format == FormatSVG {
		provider = chart.SVG
	}

	var buf bytes.Buffer
	if err := ch.Render(provider, &buf); err != nil {
		return nil, fmt.Errorf("render latency chart: %w", err)
	}
	return buf.Bytes(), nil
}

func blockFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return ""
}
