package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time with -ldflags.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Product is the name sent in the User-Agent header.
const Product = "scribe"

// Info describes the running binary.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit,omitempty"`
	BuildDate time.Time `json:"build_date"`
	GoVersion string    `json:"go_version"`
	Platform  string    `json:"platform"`
	Dirty     bool      `json:"dirty"`
}

// IsRelease reports whether the binary was built from a tagged, clean tree.
func (i *Info) IsRelease() bool {
	return i.Version != "dev" && !i.Dirty && !strings.Contains(i.Version, "dirty")
}

// Get returns the build information, filling gaps from debug.ReadBuildInfo.
func Get() *Info {
	info := &Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.modified":
				info.Dirty = s.Value == "true"
			case "vcs.time":
				if info.BuildDate.IsZero() {
					if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
						info.BuildDate = t
					}
				}
			}
		}
	}

	if len(info.Commit) > 7 {
		info.Commit = info.Commit[:7]
	}
	return info
}

// Short returns "version[-commit][-dirty]".
func Short() string {
	info := Get()
	s := info.Version
	if info.Commit != "" {
		s += "-" + info.Commit
	}
	if info.Dirty {
		s += "-dirty"
	}
	return s
}

// String returns the line printed by "scribe version".
func String() string {
	info := Get()
	s := fmt.Sprintf("%s %s (%s, %s)", Product, Short(), info.GoVersion, info.Platform)
	if !info.BuildDate.IsZero() {
		s += " built " + info.BuildDate.UTC().Format(time.RFC3339)
	}
	return s
}

// UserAgent returns the User-Agent sent to transcription backends.
func UserAgent() string {
	return Product + "/" + Short()
}
