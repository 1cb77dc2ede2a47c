// Package version carries build metadata injected at link time:
//
//	go build -ldflags "-X github.com/smazurov/blinkid/internal/version.Version=1.0.0 \
//	  -X github.com/smazurov/blinkid/internal/version.GitCommit=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"runtime"
)

// Overridden with -ldflags -X; the defaults identify a local build.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	BuildID   = "unknown"
)

// Info is the build metadata plus the toolchain that produced the binary.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	BuildID   string `json:"build_id"`
	GoVersion string `json:"go_version"`
	Compiler  string `json:"compiler"`
	Platform  string `json:"platform"`
}

func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		BuildID:   BuildID,
		GoVersion: runtime.Version(),
		Compiler:  runtime.Compiler,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String is the bare version, used as the OpenAPI document version.
func String() string {
	return Version
}

// Long is the one-line form printed by --version and logged at startup,
// e.g. "blinkid 1.0.0 (3f2a9c1, go1.24.11, linux/arm64)".
func (i Info) Long() string {
	commit := i.GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("blinkid %s (%s, %s, %s)", i.Version, commit, i.GoVersion, i.Platform)
}
