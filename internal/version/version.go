// Package version holds the CLI build metadata, injected with ldflags:
//
//	go build -ldflags "-X github.com/jmylchreest/recipescan/internal/version.Version=1.2.0 \
//	  -X github.com/jmylchreest/recipescan/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Set at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	Dirty     = "false"
	BuildDate = "unknown"
)

// Info is the structured build metadata.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Dirty     bool   `json:"dirty" yaml:"dirty"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the build metadata.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Dirty:     Dirty == "true",
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns the version, suffixed with -dirty for modified trees.
func String() string {
	if Dirty == "true" {
		return Version + "-dirty"
	}
	return Version
}

// Full returns a multi-line description for `recipescan version`.
func (i Info) Full() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "recipescan %s\n", String())
	fmt.Fprintf(&sb, "  Commit:     %s\n", i.Commit)
	if i.Dirty {
		sb.WriteString("  Dirty:      yes\n")
	}
	fmt.Fprintf(&sb, "  Built:      %s\n", i.BuildDate)
	fmt.Fprintf(&sb, "  Go version: %s\n", i.GoVersion)
	fmt.Fprintf(&sb, "  OS/Arch:    %s", i.Platform)
	return sb.String()
}
