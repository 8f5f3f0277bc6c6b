package hostinfo

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const cpuinfoSample = `processor	: 0
vendor_id	: AuthenticAMD
cpu family	: 25
model name	: AMD EPYC 7763 64-Core Processor
stepping	: 1

processor	: 1
model name	: AMD EPYC 7763 64-Core Processor
`

// TestCPUModel tests /proc/cpuinfo parsing.
func TestCPUModel(t *testing.T) {
	assert.Equal(t, "AMD EPYC 7763 64-Core Processor", cpuModel(strings.NewReader(cpuinfoSample)))
	assert.Equal(t, "", cpuModel(strings.NewReader("processor : 0\n")))
}

// TestFormatMemory tests binary unit formatting.
func TestFormatMemory(t *testing.T) {
	assert.Equal(t, "16GiB", FormatMemory(16<<30))
	assert.Equal(t, "512MiB", FormatMemory(512<<20))
}

// TestResolveFallbacks tests that empty facts are filled in.
func TestResolveFallbacks(t *testing.T) {
	env := resolve(facts{})

	assert.Equal(t, runtime.GOOS, env.OS)
	assert.Contains(t, env.CPU, runtime.GOARCH)
	assert.Equal(t, Unknown, env.Memory)

	env = resolve(facts{os: "Linux 6.8.0", cpu: "Xeon", memBytes: 8 << 30})
	assert.Equal(t, "Linux 6.8.0", env.OS)
	assert.Equal(t, "Xeon", env.CPU)
	assert.Equal(t, "8GiB", env.Memory)
}

// TestProbe tests that probing the current host fills every fact.
func TestProbe(t *testing.T) {
	env := Probe()

	assert.NotEmpty(t, env.OS)
	assert.NotEmpty(t, env.CPU)
	assert.NotEmpty(t, env.Memory)
}
