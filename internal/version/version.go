// Package version carries build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/smazurov/blinknode/internal/version.Version=v1.2.0"
//
// Without ldflags, the commit and date fall back to the VCS stamp Go
// embeds in module builds.
package version

import (
	"runtime"
	"runtime/debug"
)

// Set with -X at link time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	BuildID   = "unknown"
)

// Info contains version and build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	BuildID   string `json:"build_id"`
	GoVersion string `json:"go_version"`
	Compiler  string `json:"compiler"`
	Platform  string `json:"platform"`
}

// Get returns the metadata of the running binary.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		BuildID:   BuildID,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromVCS(&info, bi.Settings)
	}
	return info
}

// fillFromVCS replaces unset commit and date with the vcs.* settings.
func fillFromVCS(info *Info, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "unknown" && len(s.Value) >= 7 {
				info.GitCommit = s.Value[:7]
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		}
	}
}

// String renders the one-line form printed by `blinknode version`.
func (i Info) String() string {
	return "blinknode " + i.Version + " (commit " + i.GitCommit + ", built " + i.BuildDate +
		", " + i.GoVersion + " " + i.Platform + ")"
}
