// Package report composes and renders the HTML benchmark report.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/edgedlt/tpsreport"
)

// ErrIncompleteDocument indicates a Document with required slots left empty.
var ErrIncompleteDocument = errors.New("incomplete report document")

// Document is the structured content of a benchmark report.
// Every slot of the report template maps to exactly one field.
type Document struct {
	Title        string
	ContractType string

	// Test environment and network parameters.
	Network           string
	OS                string
	CPU               string
	Memory            string
	TotalNodes        int
	TotalTransactions int64
	SendRate          int64

	// RunParamsKnown is false when the sample file name did not carry the
	// total transaction count and send rate.
	RunParamsKnown bool

	// Benchmark results.
	TheoreticalTPS     int64
	MaxLatency         int64
	MaxTPS             int64
	MaxTransactionSize int64
	TotalConfirmedTx   int64

	// Relative references from the report file.
	ChartRef        string
	LatencyChartRef string // optional
	StylesheetRef   string
	ArchitectureRef string // optional

	SourceURL   string
	GeneratedAt time.Time
}

// Validate reports every required slot that is empty.
func (d Document) Validate() error {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"Title", d.Title},
		{"Network", d.Network},
		{"OS", d.OS},
		{"CPU", d.CPU},
		{"Memory", d.Memory},
		{"ChartRef", d.ChartRef},
		{"StylesheetRef", d.StylesheetRef},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if d.TotalNodes <= 0 {
		missing = append(missing, "TotalNodes")
	}
	if d.TheoreticalTPS <= 0 {
		missing = append(missing, "TheoreticalTPS")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteDocument, strings.Join(missing, ", "))
	}
	return nil
}

// Composer fills Documents with the fixed parts of the report layout.
type Composer struct {
	// TotalNodes is the number of nodes in the benchmark network.
	TotalNodes int

	StylesheetRef   string
	ArchitectureRef string
	SourceURL       string

	// Now stamps GeneratedAt. Defaults to time.Now.
	Now func() time.Time
}

// DefaultComposer returns the layout used by the AnTPS report pages.
func DefaultComposer() Composer {
	return Composer{
		TotalNodes:      2,
		StylesheetRef:   "../styles/style.css",
		ArchitectureRef: "../img/arch.png",
		SourceURL:       "https://github.com/rrhlrmrr/AnTPS/",
	}
}

// Compose builds a Document from the chain profile, host facts, summary
// statistics, the relative chart reference and the run classification.
// No value is defaulted: an empty input shows up in Validate.
func (c Composer) Compose(
	profile tpsreport.ChainProfile,
	env tpsreport.EnvironmentFacts,
	summary tpsreport.BenchmarkSummary,
	chartRef string,
	title tpsreport.TitleInfo,
	params tpsreport.RunParams,
	paramsKnown bool,
) Document {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	return Document{
		Title:              strings.ToUpper(title.Title),
		ContractType:       strings.ToUpper(title.ContractType),
		Network:            profile.NetworkLabel,
		OS:                 env.OS,
		CPU:                env.CPU,
		Memory:             env.Memory,
		TotalNodes:         c.TotalNodes,
		TotalTransactions:  params.TotalTransactions,
		SendRate:           params.SendRate,
		RunParamsKnown:     paramsKnown,
		TheoreticalTPS:     profile.TheoreticalTPS,
		MaxLatency:         summary.MaxLatency,
		MaxTPS:             summary.MaxObservedTPS,
		MaxTransactionSize: summary.MaxConfirmedTxInBlock,
		TotalConfirmedTx:   summary.TotalConfirmedTx,
		ChartRef:           chartRef,
		StylesheetRef:      c.StylesheetRef,
		ArchitectureRef:    c.ArchitectureRef,
		SourceURL:          c.SourceURL,
		GeneratedAt:        now().UTC(),
	}
}
