package tpsreport

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SampleColumns is the number of integer columns in a sample row.
const SampleColumns = 5

// columnNames in row order, used in error context.
var columnNames = [SampleColumns]string{
	"block_height",
	"latency",
	"pending_tx_count",
	"confirmed_tx_count",
	"observed_tps",
}

// Parse decodes a whitespace separated stream of integers into a SampleSet.
//
// Tokens are grouped into rows of SampleColumns in stream order, so row
// boundaries do not have to coincide with line breaks. Text after '#' on a
// line is ignored. A stream with exactly one row, with or without a trailing
// newline, yields a one-element set.
func Parse(r io.Reader) (SampleSet, error) {
	br := bufio.NewReader(r)

	var (
		records []SampleRecord
		row     [SampleColumns]int64
		col     int
		tokens  int
		line    int
	)

	for {
		text, readErr := br.ReadString('\n')
		if text == "" && readErr != nil {
			if readErr == io.EOF {
				break
			}
			return SampleSet{}, fmt.Errorf("read samples: %w", readErr)
		}
		line++
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}

		for _, field := range strings.Fields(text) {
			v, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return SampleSet{}, wrapMalformedf("line %d, row %d: %s is not an integer: %q",
					line, len(records)+1, columnNames[col], field)
			}
			if v < 0 {
				return SampleSet{}, wrapMalformedf("line %d, row %d: %s is negative: %d",
					line, len(records)+1, columnNames[col], v)
			}

			row[col] = v
			col++
			tokens++
			if col == SampleColumns {
				records = append(records, SampleRecord{
					BlockHeight:      row[0],
					Latency:          row[1],
					PendingTxCount:   row[2],
					ConfirmedTxCount: row[3],
					ObservedTPS:      row[4],
				})
				col = 0
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return SampleSet{}, fmt.Errorf("read samples: %w", readErr)
		}
	}

	if tokens == 0 {
		return SampleSet{}, wrapEmpty("no sample rows in input")
	}
	if col != 0 {
		return SampleSet{}, wrapMalformedf("%d tokens is not a multiple of %d: row %d has only %d columns",
			tokens, SampleColumns, len(records)+1, col)
	}

	return SampleSet{records: records}, nil
}

// ParseBytes is Parse over an in-memory buffer.
func ParseBytes(data []byte) (SampleSet, error) {
	return Parse(bytes.NewReader(data))
}
