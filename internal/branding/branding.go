// Package branding provides compile-time identity values for the CLI.
//
// Values come from the embedded branding.yaml; forkers edit that file
// and rebuild. Hard-coded defaults cover a missing or partial file.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

// Parsed branding values, loaded once on first access.
var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string `yaml:"cli_name"`
	DisplayName     string `yaml:"display_name"`
	Description     string `yaml:"description"`
	HomeDir         string `yaml:"home_dir"`
	EnvPrefix       string `yaml:"env_prefix"`
	GoModule        string `yaml:"go_module"`
	OverleafGitHost string `yaml:"overleaf_git_host"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:         "expaper",
			DisplayName:     "expaper",
			Description:     "Research project scaffolding with Overleaf sync",
			HomeDir:         ".expaper",
			EnvPrefix:       "EXPAPER",
			GoModule:        "github.com/expaper-labs/expaper",
			OverleafGitHost: "https://git.overleaf.com/",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "expaper").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".expaper").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "EXPAPER").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path recorded in branding.yaml.
func GoModule() string { load(); return defaults.GoModule }

// OverleafGitHost returns the expected URL prefix for Overleaf git remotes.
// URLs outside this prefix produce a warning during linking, not an error.
func OverleafGitHost() string { load(); return defaults.OverleafGitHost }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "EXPAPER_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
