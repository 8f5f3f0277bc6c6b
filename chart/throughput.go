package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/edgedlt/tpsreport"
)

const (
	// barOffset shifts each series away from the block height; with
	// barWidth this leaves the two bars of a block side by side.
	barOffset = 0.2
	barWidth  = 0.4

	// xPadding around the first and last block, in block units.
	xPadding = 0.6

	breakGlyph = "≈"
)

var (
	tpsColor       = color.RGBA{R: 105, G: 105, B: 105, A: 255} // dimgrey
	confirmedColor = color.RGBA{R: 192, G: 192, B: 192, A: 255} // silver
	referenceColor = color.RGBA{R: 255, A: 255}
)

// Axis and legend text.
const (
	xAxisLabel          = "Block Number"
	tpsAxisLabel        = "TPS"
	confirmedAxisLabel  = "Confirmed Txs per Block"
	tpsLegend           = "TPS"
	referenceLegend     = "Theoretical TPS"
	confirmedTxsLegend  = "Confirmed Txs"
	rightAxisLabelSpace = 4 // points between right axis elements
)

// RenderThroughput draws observed TPS (left axis) and confirmed transactions
// (right axis) per block as grouped bars, plus the theoretical TPS reference
// line described by plan. Both axes span [0, plan.AxisMax].
func RenderThroughput(set tpsreport.SampleSet, summary tpsreport.BenchmarkSummary, plan tpsreport.AxisPlan, opts Options) ([]byte, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: nothing to chart", tpsreport.ErrEmptySampleSet)
	}

	records := set.Records()
	heights := make([]float64, len(records))
	tps := make([]float64, len(records))
	confirmed := make([]float64, len(records))
	for i, r := range records {
		heights[i] = float64(r.BlockHeight)
		tps[i] = float64(r.ObservedTPS)
		confirmed[i] = float64(r.ConfirmedTxCount)
	}

	p := plot.New()
	p.X.Label.Text = xAxisLabel
	p.Y.Label.Text = tpsAxisLabel
	p.Y.Label.TextStyle.Color = tpsColor
	p.Y.Tick.Label.Color = tpsColor

	tpsBars := &blockBars{X: heights, Y: tps, Offset: -barOffset, Width: barWidth, Color: tpsColor}
	confirmedBars := &blockBars{X: heights, Y: confirmed, Offset: barOffset, Width: barWidth, Color: confirmedColor}
	ref := newReferenceLine(plan, p.Y.Tick.Label)
	p.Add(tpsBars, confirmedBars, ref)

	// Ranges are fixed after Add so neither the bars nor the label widen them.
	p.X.Min = float64(summary.MinBlockHeight) - xPadding
	p.X.Max = float64(set.MaxBlockHeight()) + xPadding
	p.X.Tick.Marker = integerTicks{}
	p.Y.Min = 0
	p.Y.Max = plan.AxisMax

	cw, err := draw.NewFormattedCanvas(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("create %s canvas: %w", opts.Format, err)
	}
	dc := draw.New(cw)
	dc.SetColor(color.White)
	dc.Fill(dc.Rectangle.Path())

	axis := newRightAxis(p, confirmedAxisLabel)
	left := plot.NewLegend()
	left.Top, left.Left = true, true
	left.Add(tpsLegend, tpsBars)
	left.Add(referenceLegend, ref)
	right := plot.NewLegend()
	right.Top, right.Left = true, false
	right.Add(confirmedTxsLegend, confirmedBars)

	band := legendBand(left.TextStyle, 2)
	body := draw.Crop(dc, 0, -axis.width(), 0, -band)
	p.Draw(body)

	data := p.DataCanvas(body)
	axis.draw(data, p)

	legendArea := draw.Canvas{
		Canvas: dc.Canvas,
		Rectangle: vg.Rectangle{
			Min: vg.Point{X: data.Min.X, Y: dc.Max.Y - band},
			Max: vg.Point{X: data.Max.X, Y: dc.Max.Y},
		},
	}
	left.Draw(legendArea)
	right.Draw(legendArea)

	var buf bytes.Buffer
	if _, err := cw.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode %s chart: %w", opts.Format, err)
	}
	return buf.Bytes(), nil
}

// legendBand is the height reserved above the plot for rows legend entries.
func legendBand(sty text.Style, rows int) vg.Length {
	return vg.Length(rows)*sty.Height(tpsLegend) + vg.Points(8)
}

// blockBars draws one bar per block, centred at X+Offset in data units.
// Unlike plotter.BarChart it positions bars by block height, not by index.
type blockBars struct {
	X, Y   []float64
	Offset float64
	Width  float64
	Color  color.Color
}

// Plot implements plot.Plotter.
func (b *blockBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for i := range b.X {
		x0 := trX(b.X[i] + b.Offset - b.Width/2)
		x1 := trX(b.X[i] + b.Offset + b.Width/2)
		y0 := trY(0)
		y1 := trY(b.Y[i])
		pts := []vg.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
		c.FillPolygon(b.Color, c.ClipPolygonXY(pts))
	}
}

// DataRange implements plot.DataRanger.
func (b *blockBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	for i := range b.X {
		xmin = math.Min(xmin, b.X[i]+b.Offset-b.Width/2)
		xmax = math.Max(xmax, b.X[i]+b.Offset+b.Width/2)
		ymax = math.Max(ymax, b.Y[i])
	}
	return xmin, xmax, 0, ymax
}

// Thumbnail implements plot.Thumbnailer.
func (b *blockBars) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(b.Color, pts)
}

// referenceLine draws the theoretical TPS line, its value label and, for a
// compressed line, the scale-break glyph on the left edge of the data area.
// It reports no data range, so the axes never stretch to fit it.
type referenceLine struct {
	Plan       tpsreport.AxisPlan
	LineStyle  draw.LineStyle
	LabelStyle text.Style
	BreakStyle text.Style
}

func newReferenceLine(plan tpsreport.AxisPlan, base text.Style) *referenceLine {
	label := base
	label.Color = referenceColor
	label.XAlign = draw.XRight
	label.YAlign = draw.YCenter

	glyph := base
	glyph.Color = color.Black
	glyph.Font.Size = vg.Points(18)
	glyph.XAlign = draw.XCenter
	glyph.YAlign = draw.YCenter

	return &referenceLine{
		Plan: plan,
		LineStyle: draw.LineStyle{
			Color:  referenceColor,
			Width:  vg.Points(1.5),
			Dashes: []vg.Length{vg.Points(6), vg.Points(3)},
		},
		LabelStyle: label,
		BreakStyle: glyph,
	}
}

// Plot implements plot.Plotter.
func (r *referenceLine) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	y := trY(r.Plan.LineY)
	c.StrokeLine2(r.LineStyle, c.Min.X, y, c.Max.X, y)
	c.FillText(r.LabelStyle, vg.Point{X: trX(r.Plan.LabelX), Y: y}, strconv.FormatInt(r.Plan.LabelValue, 10))

	if r.Plan.BreakMarker {
		c.FillText(r.BreakStyle, vg.Point{X: c.Min.X, Y: trY(r.Plan.BreakY)}, breakGlyph)
	}
}

// Thumbnail implements plot.Thumbnailer.
func (r *referenceLine) Thumbnail(c *draw.Canvas) {
	y := c.Center().Y
	c.StrokeLine2(r.LineStyle, c.Min.X, y, c.Max.X, y)
}

// rightAxis mirrors the left Y axis on the right edge of the data area.
// gonum/plot only draws a left vertical axis.
type rightAxis struct {
	ticks      []plot.Tick
	tickLabel  text.Style
	title      text.Style
	titleText  string
	tickLength vg.Length
	lineStyle  draw.LineStyle
	tickStyle  draw.LineStyle
}

func newRightAxis(p *plot.Plot, title string) *rightAxis {
	tickLabel := p.Y.Tick.Label
	tickLabel.Color = confirmedColor
	tickLabel.XAlign = draw.XLeft
	tickLabel.YAlign = draw.YCenter

	titleStyle := p.Y.Label.TextStyle
	titleStyle.Color = confirmedColor
	titleStyle.Rotation = math.Pi / 2
	titleStyle.XAlign = draw.XCenter
	titleStyle.YAlign = draw.YCenter

	var ticks []plot.Tick
	for _, t := range p.Y.Tick.Marker.Ticks(p.Y.Min, p.Y.Max) {
		if t.Value < p.Y.Min || t.Value > p.Y.Max {
			continue
		}
		ticks = append(ticks, t)
	}

	return &rightAxis{
		ticks:      ticks,
		tickLabel:  tickLabel,
		title:      titleStyle,
		titleText:  title,
		tickLength: p.Y.Tick.Length,
		lineStyle:  p.Y.LineStyle,
		tickStyle:  p.Y.Tick.LineStyle,
	}
}

func (a *rightAxis) labelWidth() vg.Length {
	var w vg.Length
	for _, t := range a.ticks {
		if t.IsMinor() {
			continue
		}
		if lw := a.tickLabel.Width(t.Label); lw > w {
			w = lw
		}
	}
	return w
}

// width is the horizontal space the axis needs right of the data area.
func (a *rightAxis) width() vg.Length {
	gap := vg.Points(rightAxisLabelSpace)
	return a.tickLength + gap + a.labelWidth() + gap + a.title.Height(a.titleText) + gap
}

func (a *rightAxis) draw(c draw.Canvas, p *plot.Plot) {
	_, trY := p.Transforms(&c)
	gap := vg.Points(rightAxisLabelSpace)
	x := c.Max.X

	c.StrokeLine2(a.lineStyle, x, c.Min.Y, x, c.Max.Y)
	for _, t := range a.ticks {
		y := trY(t.Value)
		length := a.tickLength
		if t.IsMinor() {
			length /= 2
		}
		c.StrokeLine2(a.tickStyle, x, y, x+length, y)
		if !t.IsMinor() {
			c.FillText(a.tickLabel, vg.Point{X: x + a.tickLength + gap, Y: y}, t.Label)
		}
	}

	titleX := x + a.tickLength + gap + a.labelWidth() + gap + a.title.Height(a.titleText)/2
	c.FillText(a.title, vg.Point{X: titleX, Y: (c.Min.Y + c.Max.Y) / 2}, a.titleText)
}

// integerTicks keeps only the whole-number ticks of plot.DefaultTicks, since
// block heights are integers.
type integerTicks struct{}

// Ticks implements plot.Ticker.
func (integerTicks) Ticks(lo, hi float64) []plot.Tick {
	var ticks []plot.Tick
	for _, t := range (plot.DefaultTicks{}).Ticks(lo, hi) {
		if t.Value != math.Trunc(t.Value) {
			continue
		}
		if !t.IsMinor() {
			t.Label = strconv.FormatFloat(t.Value, 'f', 0, 64)
		}
		ticks = append(ticks, t)
	}
	return ticks
}
