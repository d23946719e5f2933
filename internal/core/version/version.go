// Package version reports what build is running
package version

import "runtime/debug"

// set with -ldflags "-X postcraft/internal/core/version.version=v0.3.1"
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// BuildInfo is the /meta/version payload
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

// Info describes the running binary; commit and date fall back to the vcs stamp go build embeds
func Info(service string) BuildInfo {
	if service == "" {
		service = "postcraft"
	}
	bi := BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return bi
	}
	bi.GoVersion = info.GoVersion
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && bi.Commit == "":
			bi.Commit = s.Value
		case s.Key == "vcs.time" && bi.Date == "":
			bi.Date = s.Value
		}
	}
	return bi
}
