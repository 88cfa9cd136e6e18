package page

import (
	"fmt"
	"html"
	"runtime"
)

// SystemInfo describes the host the service runs on.
type SystemInfo struct {
	Machine string
	System  string
	Release string
	Runtime string
}

// HTML formats the info as the fragment substituted for $SYSTEM_INFO.
func (i SystemInfo) HTML() string {
	return fmt.Sprintf(`
    %s
    <ul>
        <li>System: %s</li>
        <li>Release: %s</li>
        <li>Go: %s</li>
    </ul>
    `,
		html.EscapeString(i.Machine),
		html.EscapeString(i.System),
		html.EscapeString(i.Release),
		html.EscapeString(i.Runtime))
}

func fallbackSystemInfo() SystemInfo {
	return SystemInfo{
		Machine: runtime.GOARCH,
		System:  runtime.GOOS,
		Release: "unknown",
		Runtime: runtime.Version(),
	}
}
