package scaffold

import "embed"

// templatesFS carries the generated-file templates and the experiment
// helper scripts copied into every new project.
//
//go:embed all:templates
var templatesFS embed.FS
