package paper

import (
	"archive/zip"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed all:templates
var templatesFS embed.FS

// descriptions annotate the bundled templates for `template list`.
// Conference templates (ICML, NeurIPS, ICLR) deliberately aren't bundled:
// they live in Overleaf's gallery and are picked up by linking.
var descriptions = map[string]string{
	"blank": "Minimal LaTeX document for local-first workflows",
}

// Template is one bundled paper template.
type Template struct {
	Name        string
	Description string
}

// List returns the bundled templates, sorted by name.
func List() []Template {
	entries, err := fs.ReadDir(templatesFS, "templates")
	if err != nil {
		return nil
	}
	var templates []Template
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		templates = append(templates, Template{
			Name:        entry.Name(),
			Description: descriptions[entry.Name()],
		})
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates
}

// Create instantiates the named template into <projectRoot>/paper. It
// refuses to touch a paper directory that already has content.
func Create(projectRoot, name string) error {
	paperDir := filepath.Join(projectRoot, "paper")
	if entries, err := os.ReadDir(paperDir); err == nil && len(entries) > 0 {
		return fmt.Errorf("paper/ directory is not empty; remove existing content first")
	}

	root := "templates/" + name
	if _, err := fs.Stat(templatesFS, root); err != nil {
		var names []string
		for _, t := range List() {
			names = append(names, t.Name)
		}
		return fmt.Errorf("template %q not found (available: %s)", name, strings.Join(names, ", "))
	}

	return fs.WalkDir(templatesFS, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(path, root)
		rel = strings.TrimPrefix(rel, "/")
		target := filepath.Join(paperDir, filepath.FromSlash(rel))
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := fs.ReadFile(templatesFS, path)
		if err != nil {
			return fmt.Errorf("reading embedded template file %s: %w", path, err)
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
		return nil
	})
}

// ExportZip packs <projectRoot>/paper into a ZIP at output, suitable for
// Overleaf's project upload. It refuses an empty or missing paper
// directory. The overwrote return tells callers an existing file was
// replaced, so they can warn.
func ExportZip(projectRoot, output string) (overwrote bool, err error) {
	paperDir := filepath.Join(projectRoot, "paper")
	entries, err := os.ReadDir(paperDir)
	if err != nil {
		return false, fmt.Errorf("no paper/ directory found")
	}
	if len(entries) == 0 {
		return false, fmt.Errorf("paper/ directory is empty")
	}

	if _, err := os.Stat(output); err == nil {
		overwrote = true
	}

	f, err := os.Create(output)
	if err != nil {
		return overwrote, fmt.Errorf("creating %s: %w", output, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	err = filepath.WalkDir(paperDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(paperDir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		zw.Close()
		return overwrote, fmt.Errorf("packing %s: %w", output, err)
	}
	if err := zw.Close(); err != nil {
		return overwrote, fmt.Errorf("finishing %s: %w", output, err)
	}
	return overwrote, nil
}
