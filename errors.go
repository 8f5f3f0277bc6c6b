package tpsreport

import (
	"errors"
	"fmt"
)

// Error classes for report generation.
// Every class is fatal to the current run: the pipeline produces a complete
// chart and report pair or nothing at all.
// Use errors.Is() to check the class, then inspect the message for details.
//
// Error Classification:
//   - ErrUnknownChain: chain identifier not present in the registry
//   - ErrEmptySampleSet: the sample stream held no rows
//   - ErrMalformedSample: the sample stream is not a sequence of 5-column integer rows
//   - ErrConfig: invalid generator or settings configuration
var (
	// ErrUnknownChain indicates a chain identifier the registry does not know.
	// The CLI translates it into the list of supported networks and exits.
	ErrUnknownChain = errors.New("unknown chain")

	// ErrEmptySampleSet indicates that the sample stream contained no rows.
	ErrEmptySampleSet = errors.New("empty sample set")

	// ErrMalformedSample indicates a token count that is not a multiple of 5,
	// a non-integer token, or a negative value.
	ErrMalformedSample = errors.New("malformed sample")

	// ErrConfig indicates a configuration error that prevents a run.
	// Examples: unsupported chart format, duplicate chain profile, zero chart size.
	ErrConfig = errors.New("configuration error")
)

// Unexported helpers to wrap errors with the appropriate class.

func wrapUnknownChainf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUnknownChain, fmt.Sprintf(format, args...))
}

func wrapEmpty(msg string) error {
	return fmt.Errorf("%w: %s", ErrEmptySampleSet, msg)
}

func wrapMalformedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedSample, fmt.Sprintf(format, args...))
}

func wrapConfig(msg string) error {
	return fmt.Errorf("%w: %s", ErrConfig, msg)
}

func wrapConfigf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
