//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package page

// CurrentSystemInfo reports the build target when uname is unavailable.
func CurrentSystemInfo() SystemInfo {
	return fallbackSystemInfo()
}
