package registry

// Tool is one registry entry: where to fetch a tool from and how to run
// it once installed.
type Tool struct {
	URL         string `yaml:"url" json:"url"`
	Entrypoint  string `yaml:"entrypoint,omitempty" json:"entrypoint,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// MinCLI is an optional minimum expaper version the tool's setup
	// needs. Violations warn during tool add; they never block it.
	MinCLI string `yaml:"min_cli,omitempty" json:"min_cli,omitempty"`
}

// Registry is the merged view of the bundled registry and the user
// overlay.
type Registry struct {
	Tools map[string]Tool `yaml:"tools" json:"tools"`
}

// ProjectTool is a tool already installed in a project, as recorded in
// experiments/configs/meta.yaml.
type ProjectTool struct {
	Path        string `yaml:"path" json:"path"`
	URL         string `yaml:"url,omitempty" json:"url,omitempty"`
	Entrypoint  string `yaml:"entrypoint,omitempty" json:"entrypoint,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}
