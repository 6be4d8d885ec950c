// Package version provides version information for the modkit CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version.
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// Modules whose versions are reported, in display order. CUE decodes manifests
// and validates config; the others decode the remaining manifest formats.
var reportedModules = []string{
	"cuelang.org/go",
	"github.com/hashicorp/hcl/v2",
	"github.com/pelletier/go-toml/v2",
	"sigs.k8s.io/yaml",
}

// Info contains version information.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"gitCommit" yaml:"gitCommit"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`

	// Dependencies holds the reported modules. Versions read "(unknown)" when
	// build info is unavailable, as in tests.
	Dependencies []Dependency `json:"dependencies" yaml:"dependencies"`
}

// Dependency is one linked module.
type Dependency struct {
	Path    string `json:"path" yaml:"path"`
	Version string `json:"version" yaml:"version"`
}

// Get returns the current version information.
func Get() Info {
	return Info{
		Version:      Version,
		GitCommit:    GitCommit,
		BuildDate:    BuildDate,
		GoVersion:    runtime.Version(),
		Dependencies: dependencies(debug.ReadBuildInfo()),
	}
}

func dependencies(bi *debug.BuildInfo, ok bool) []Dependency {
	linked := make(map[string]string)
	if ok {
		for _, dep := range bi.Deps {
			v := dep.Version
			if dep.Replace != nil {
				v = dep.Replace.Version
			}
			linked[dep.Path] = v
		}
	}

	out := make([]Dependency, 0, len(reportedModules))
	for _, path := range reportedModules {
		v, found := linked[path]
		if !found || v == "" {
			v = "(unknown)"
		}
		out = append(out, Dependency{Path: path, Version: v})
	}
	return out
}

// String returns a human-readable version string.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "modkit:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s\n", i.Version, i.BuildDate, i.GitCommit, i.GoVersion)
	if len(i.Dependencies) > 0 {
		sb.WriteString("\nLinked:\n")
		for _, d := range i.Dependencies {
			fmt.Fprintf(&sb, "  %-32s %s\n", d.Path, d.Version)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
