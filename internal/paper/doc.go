// Package paper manages paper templates and the paper/ directory: listing
// the bundled templates, instantiating one into a project, and exporting
// the paper as a ZIP for Overleaf import.
package paper
