package registry

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"go.yaml.in/yaml/v3"
)

//go:embed registry.yaml
var bundledBytes []byte

// UserPath returns the location of the user's registry overlay.
func UserPath() string {
	return filepath.Join(xdg.ConfigHome, "expaper", "registry.yaml")
}

// Load returns the merged registry: bundled entries overlaid with the
// user's registry file, if present.
func Load() (*Registry, error) {
	return LoadWithUser(UserPath())
}

// LoadWithUser merges the bundled registry with the overlay at userPath.
// A missing overlay is normal; an invalid one is an error — broken user
// registries are reported, never silently merged.
func LoadWithUser(userPath string) (*Registry, error) {
	reg := &Registry{Tools: make(map[string]Tool)}

	if err := mergeInto(reg, bundledBytes); err != nil {
		return nil, fmt.Errorf("loading bundled registry: %w", err)
	}

	data, err := os.ReadFile(userPath)
	if os.IsNotExist(err) {
		return reg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading user registry: %w", err)
	}

	issues, err := validateRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("validating user registry %s: %w", userPath, err)
	}
	if len(issues) > 0 {
		lines := make([]string, len(issues))
		for i, issue := range issues {
			lines[i] = "  " + issue.String()
		}
		return nil, fmt.Errorf("invalid user registry %s:\n%s", userPath, strings.Join(lines, "\n"))
	}

	if err := mergeInto(reg, data); err != nil {
		return nil, fmt.Errorf("loading user registry: %w", err)
	}
	return reg, nil
}

// mergeInto unmarshals raw registry YAML and overlays its tools onto
// reg; later entries win.
func mergeInto(reg *Registry, data []byte) error {
	var layer Registry
	if err := yaml.Unmarshal(data, &layer); err != nil {
		return fmt.Errorf("parsing registry YAML: %w", err)
	}
	for name, tool := range layer.Tools {
		reg.Tools[name] = tool
	}
	return nil
}

// Lookup returns the registry entry for a tool name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	tool, ok := r.Tools[name]
	return tool, ok
}
