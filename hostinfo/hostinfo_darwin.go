//go:build darwin

package hostinfo

import (
	"strings"

	"golang.org/x/sys/unix"
)

func platformFacts() facts {
	var f facts

	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		f.os = unix.ByteSliceToString(uts.Sysname[:]) + " " + unix.ByteSliceToString(uts.Release[:])
	}

	if mem, err := unix.SysctlUint64("hw.memsize"); err == nil {
		f.memBytes = mem
	}

	if brand, err := unix.Sysctl("machdep.cpu.brand_string"); err == nil {
		f.cpu = strings.TrimSpace(brand)
	}
	return f
}
