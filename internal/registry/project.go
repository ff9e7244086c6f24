package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// MetaPath returns the location of a project's tool metadata file.
func MetaPath(projectRoot string) string {
	return filepath.Join(projectRoot, "experiments", "configs", "meta.yaml")
}

// ProjectTools reads the tools installed in a project from its
// meta.yaml. A project with no tools returns an empty map.
func ProjectTools(projectRoot string) (map[string]ProjectTool, error) {
	data, err := os.ReadFile(MetaPath(projectRoot))
	if err != nil {
		return nil, fmt.Errorf("reading project metadata: %w", err)
	}

	var meta struct {
		Tools map[string]ProjectTool `yaml:"tools"`
	}
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", MetaPath(projectRoot), err)
	}
	if meta.Tools == nil {
		meta.Tools = make(map[string]ProjectTool)
	}
	return meta.Tools, nil
}
