//go:build linux || darwin || freebsd || netbsd || openbsd

package page

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// CurrentSystemInfo reads machine, system and release from uname(2).
func CurrentSystemInfo() SystemInfo {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return fallbackSystemInfo()
	}
	return SystemInfo{
		Machine: unix.ByteSliceToString(u.Machine[:]),
		System:  unix.ByteSliceToString(u.Sysname[:]),
		Release: unix.ByteSliceToString(u.Release[:]),
		Runtime: runtime.Version(),
	}
}
