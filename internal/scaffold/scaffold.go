package scaffold

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"github.com/expaper-labs/expaper/internal/gitx"
)

// InitialCommitMessage marks the first commit of a freshly scaffolded
// project, recorded before any Overleaf subtree is mounted.
const InitialCommitMessage = "Initial project structure"

// projectDirs is the directory skeleton of a new project, in creation
// order.
var projectDirs = []string{
	"experiments/configs",
	"experiments/tools",
	"experiments/scripts",
	"experiments/notebooks",
	"experiments/outputs",
	"paper",
	"shared/bib",
	"shared/figures",
}

// helperScripts are the experiment scripts installed into
// experiments/scripts/, made executable.
var helperScripts = []string{"add_tool", "run_experiment", "snapshot_experiment"}

// Data holds the variables available to the generated-file templates.
type Data struct {
	Name   string
	Author string
	Date   string // ISO date of creation
	Year   int
}

// Options configures project creation.
type Options struct {
	// Name is the project name; it becomes the directory name.
	Name string

	// ParentDir is the directory the project is created in.
	ParentDir string

	// Author is recorded in the generated meta.yaml, when set.
	Author string

	// DryRun prints the planned actions to Out without touching disk or
	// running git.
	DryRun bool

	// Out receives the dry-run plan. Defaults to io.Discard.
	Out io.Writer
}

// Result describes a created project.
type Result struct {
	Dir   string
	Files []string
}

// Create scaffolds a new project: the directory skeleton, helper scripts,
// generated config and docs files, and a git repository on branch main
// with an initial commit. Overleaf linking, paper templates, and tool
// installation are layered on top by the caller.
func Create(ctx context.Context, runner gitx.Runner, opts Options) (*Result, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	parent, err := filepath.Abs(opts.ParentDir)
	if err != nil {
		return nil, fmt.Errorf("resolving parent directory: %w", err)
	}
	dir := filepath.Join(parent, opts.Name)

	data := &Data{
		Name:   opts.Name,
		Author: opts.Author,
		Date:   time.Now().Format("2006-01-02"),
		Year:   time.Now().Year(),
	}

	if opts.DryRun {
		printPlan(out, dir)
		return &Result{Dir: dir}, nil
	}

	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("directory %s already exists", dir)
	}

	result := &Result{Dir: dir}
	for _, sub := range projectDirs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", sub, err)
		}
	}

	for _, name := range helperScripts {
		raw, err := fs.ReadFile(templatesFS, "templates/scripts/"+name)
		if err != nil {
			return nil, fmt.Errorf("reading embedded script %s: %w", name, err)
		}
		rel := filepath.Join("experiments", "scripts", name)
		if err := os.WriteFile(filepath.Join(dir, rel), raw, 0755); err != nil {
			return nil, fmt.Errorf("writing %s: %w", rel, err)
		}
		result.Files = append(result.Files, rel)
	}

	generated := []struct {
		tmpl string
		rel  string
	}{
		{"meta.yaml.tmpl", filepath.Join("experiments", "configs", "meta.yaml")},
		{"README.md.tmpl", "README.md"},
		{"CLAUDE.md.tmpl", "CLAUDE.md"},
	}
	for _, g := range generated {
		if err := renderFile(g.tmpl, filepath.Join(dir, g.rel), data); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, g.rel)
	}

	// The gitignore ships verbatim; no variables in it.
	raw, err := fs.ReadFile(templatesFS, "templates/gitignore")
	if err != nil {
		return nil, fmt.Errorf("reading embedded gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), raw, 0644); err != nil {
		return nil, fmt.Errorf("writing .gitignore: %w", err)
	}
	result.Files = append(result.Files, ".gitignore")

	repo := gitx.NewRepo(runner, dir)
	if err := repo.Init(ctx); err != nil {
		return nil, err
	}
	// Best effort: old git versions refuse to rename an unborn branch.
	_ = repo.RenameBranch(ctx, "main")
	if err := repo.StageAll(ctx); err != nil {
		return nil, err
	}
	if err := repo.Commit(ctx, InitialCommitMessage); err != nil {
		return nil, err
	}

	return result, nil
}

func renderFile(tmplName, outPath string, data *Data) error {
	raw, err := fs.ReadFile(templatesFS, "templates/"+tmplName)
	if err != nil {
		return fmt.Errorf("reading embedded template %s: %w", tmplName, err)
	}
	tmpl, err := template.New(tmplName).Parse(string(raw))
	if err != nil {
		return fmt.Errorf("parsing template %s: %w", tmplName, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing template %s: %w", tmplName, err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

func printPlan(out io.Writer, dir string) {
	for _, sub := range projectDirs {
		fmt.Fprintf(out, "  mkdir %s\n", filepath.Join(dir, sub))
	}
	for _, name := range helperScripts {
		fmt.Fprintf(out, "  copy  %s -> experiments/scripts/\n", name)
	}
	for _, rel := range []string{
		filepath.Join("experiments", "configs", "meta.yaml"),
		"README.md", "CLAUDE.md", ".gitignore",
	} {
		fmt.Fprintf(out, "  write %s\n", rel)
	}
	fmt.Fprintf(out, "  git init (branch main)\n")
}
