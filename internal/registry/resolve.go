package registry

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Resolved is a fully specified tool ready to be added to a project.
type Resolved struct {
	Name        string
	URL         string
	Entrypoint  string
	Description string
	Warnings    []string
}

// Resolve turns a tool name plus optional overrides into a complete tool
// description. With no URL, the name must exist in the registry; with a
// URL, the registry is bypassed entirely. Empty entrypoint and
// description get the conventional defaults.
func (r *Registry) Resolve(name, url, entrypoint, description, cliVersion string) (*Resolved, error) {
	res := &Resolved{Name: name, URL: url, Entrypoint: entrypoint, Description: description}

	if url == "" {
		tool, ok := r.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("tool %q not found in registry; provide a URL or add it to %s", name, UserPath())
		}
		res.URL = tool.URL
		if res.Entrypoint == "" {
			res.Entrypoint = tool.Entrypoint
		}
		if res.Description == "" {
			res.Description = tool.Description
		}
		if w := checkMinCLI(name, tool.MinCLI, cliVersion); w != "" {
			res.Warnings = append(res.Warnings, w)
		}
	}

	if res.Entrypoint == "" {
		res.Entrypoint = fmt.Sprintf("-m %s.main", name)
	}
	if res.Description == "" {
		res.Description = name + " tool"
	}
	return res, nil
}

// checkMinCLI compares the running version against the tool's declared
// minimum. Unparsable versions (dev builds) skip the check; a declared
// minimum above the running version produces a warning, never an error.
func checkMinCLI(name, minCLI, cliVersion string) string {
	if minCLI == "" {
		return ""
	}
	current, err := semver.NewVersion(strings.TrimPrefix(cliVersion, "v"))
	if err != nil {
		return ""
	}
	constraint, err := semver.NewConstraint(">= " + strings.TrimPrefix(minCLI, "v"))
	if err != nil {
		return fmt.Sprintf("tool %q declares invalid min_cli %q", name, minCLI)
	}
	if !constraint.Check(current) {
		return fmt.Sprintf("tool %q wants expaper >= %s (running %s); it may not work correctly",
			name, minCLI, cliVersion)
	}
	return ""
}
