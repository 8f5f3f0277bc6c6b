// Package hostinfo probes the environment facts shown in a benchmark report.
package hostinfo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	units "github.com/docker/go-units"

	"github.com/edgedlt/tpsreport"
)

// Unknown is reported for facts the platform does not expose.
const Unknown = "unknown"

// facts is what a platform probe could find. Empty fields fall back.
type facts struct {
	os       string
	cpu      string
	memBytes uint64
}

// Probe returns the OS, CPU model and total memory of the current host.
// It never fails; missing facts are filled with runtime information or
// Unknown.
func Probe() tpsreport.EnvironmentFacts {
	return resolve(platformFacts())
}

func resolve(f facts) tpsreport.EnvironmentFacts {
	env := tpsreport.EnvironmentFacts{
		OS:     f.os,
		CPU:    f.cpu,
		Memory: Unknown,
	}
	if env.OS == "" {
		env.OS = runtime.GOOS
	}
	if env.CPU == "" {
		env.CPU = fmt.Sprintf("%s/%s (%d cores)", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	}
	if f.memBytes > 0 {
		env.Memory = FormatMemory(f.memBytes)
	}
	return env
}

// FormatMemory renders a byte count with binary units, e.g. "31.26GiB".
func FormatMemory(b uint64) string {
	return units.BytesSize(float64(b))
}

// cpuModel returns the first "model name" entry of a /proc/cpuinfo stream.
func cpuModel(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "model name") {
			continue
		}
		if _, value, ok := strings.Cut(line, ":"); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func cpuModelFromFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()
	return cpuModel(f)
}
