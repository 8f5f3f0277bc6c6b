package tpsreport

// Placement of the theoretical TPS reference when it lies above the chart
// ceiling. Fractions are of the visible axis range.
const (
	// ScaledLineFraction is where the compressed reference line is drawn.
	ScaledLineFraction = 0.98

	// BreakMarkerFraction is where the scale-break glyph is drawn.
	BreakMarkerFraction = 0.94

	// LabelInset is how far left of the first block the line label sits.
	LabelInset = 0.7
)

// PlanAxis decides how the theoretical TPS line is drawn on an axis that
// spans [0, summary.ChartCeiling].
//
// If the theoretical value fits inside the axis it is drawn at its true
// height. Otherwise the axis keeps its range, the line is pinned near the top
// and a scale-break marker is placed just below it. The label always carries
// the literal theoretical value.
func PlanAxis(summary BenchmarkSummary, profile ChainProfile) AxisPlan {
	ceiling := float64(summary.ChartCeiling)
	theoretical := profile.TheoreticalTPS

	plan := AxisPlan{
		AxisMax:    ceiling,
		LabelX:     float64(summary.MinBlockHeight) - LabelInset,
		LabelValue: theoretical,
	}

	if theoretical <= summary.ChartCeiling {
		plan.LineY = float64(theoretical)
		return plan
	}

	plan.LineY = ScaledLineFraction * ceiling
	plan.BreakMarker = true
	plan.BreakY = BreakMarkerFraction * ceiling
	return plan
}
