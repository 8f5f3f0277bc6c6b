//go:build linux

package hostinfo

import "golang.org/x/sys/unix"

func platformFacts() facts {
	var f facts

	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		f.os = unix.ByteSliceToString(uts.Sysname[:]) + " " + unix.ByteSliceToString(uts.Release[:])
	}

	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err == nil {
		f.memBytes = uint64(si.Totalram) * uint64(si.Unit)
	}

	f.cpu = cpuModelFromFile("/proc/cpuinfo")
	return f
}
