package overleaf

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/expaper-labs/expaper/internal/gitx"
	"github.com/expaper-labs/expaper/internal/project"
)

// Protocol constants. Overleaf's git bridge always serves a single branch
// named master, and the remote name is part of the documented workflow
// (users are told to run `git remote remove overleaf`), so neither is
// exposed as a CLI option. They are engine fields only so tests can
// substitute fixtures.
const (
	DefaultRemote = "overleaf"
	DefaultBranch = "master"

	// PaperDirName is the subtree mount directory inside the project.
	PaperDirName = "paper"

	// PreLinkCommitMessage marks the automatic commit of pending changes
	// made right before the subtree is added.
	PreLinkCommitMessage = "Pre-Overleaf link state"
)

// Engine drives the subtree sync state machine. The zero value is not
// usable; construct with NewEngine.
type Engine struct {
	// Remote and Branch identify the Overleaf endpoint. Defaults:
	// "overleaf" and "master".
	Remote string
	Branch string

	// HostPrefix is the expected URL prefix for Overleaf git remotes.
	// URLs outside it produce a warning, never a hard error — the
	// registry does not gatekeep on URL shape.
	HostPrefix string

	// AutoCommit lets Link stage and commit pending changes with
	// PreLinkCommitMessage before adding the subtree. This mutates
	// history without per-change confirmation; it is a documented
	// convenience, on by default, and independently toggleable.
	AutoCommit bool

	// Progress receives step-by-step notes during long operations.
	Progress io.Writer

	runner gitx.Runner
}

// NewEngine returns an Engine with production defaults over the given
// runner.
func NewEngine(runner gitx.Runner) *Engine {
	return &Engine{
		Remote:     DefaultRemote,
		Branch:     DefaultBranch,
		HostPrefix: "https://git.overleaf.com/",
		AutoCommit: true,
		Progress:   io.Discard,
		runner:     runner,
	}
}

// coords holds the per-invocation coordinates every operation re-resolves
// from scratch: nothing here survives between calls.
type coords struct {
	projectRoot string
	repoRoot    string
	prefix      string
	warnings    []string
}

// paperDir returns the absolute path of the subtree mount point.
func (c *coords) paperDir() string {
	return filepath.Join(c.projectRoot, PaperDirName)
}

// resolve locates the project root, repository root, and subtree prefix
// for a working directory. On failure it returns a terminal Outcome.
func (e *Engine) resolve(ctx context.Context, dir string) (*coords, *Outcome) {
	root, err := project.FindRoot(dir)
	if err != nil {
		out := failure(StatusNotInProject, "",
			"not in an expaper project directory",
			"run this command inside a project containing experiments/ or paper/", nil)
		return nil, &out
	}

	repoRoot, err := gitx.TopLevel(ctx, e.runner, dir)
	if err != nil {
		out := failure(StatusNotInProject, "",
			fmt.Sprintf("not inside a git repository: %v", err),
			"initialize one with `git init` or run inside an existing repository", nil)
		return nil, &out
	}

	c := &coords{projectRoot: root, repoRoot: repoRoot}
	var fallback bool
	c.prefix, fallback = ResolvePrefix(root, repoRoot)
	if fallback {
		c.warnings = append(c.warnings, fmt.Sprintf(
			"project root %s is not inside repository root %s; assuming prefix %q",
			root, repoRoot, c.prefix))
	}
	return c, nil
}

// Link connects an existing Overleaf project: it registers the remote,
// fetches from it, and mounts the remote's branch as a squashed subtree at
// the resolved prefix. Mutating steps are compensated in reverse order if
// a later step fails; compensation errors are swallowed but reported on
// Progress.
func (e *Engine) Link(ctx context.Context, dir, url string) Outcome {
	c, fail := e.resolve(ctx, dir)
	if fail != nil {
		return *fail
	}

	if !strings.HasPrefix(url, e.HostPrefix) {
		c.warnings = append(c.warnings, fmt.Sprintf(
			"URL doesn't look like an Overleaf git URL (expected %s<project-id>)", e.HostPrefix))
	}

	repo := gitx.NewRepo(e.runner, c.repoRoot)

	existing, ok, err := repo.RemoteURL(ctx, e.Remote)
	if err != nil {
		return e.runnerFailure(c, err)
	}
	if ok {
		return failure(StatusAlreadyLinked, c.prefix,
			fmt.Sprintf("remote %q already configured: %s", e.Remote, existing),
			fmt.Sprintf("remove it first with: git remote remove %s", e.Remote), c.warnings)
	}

	// The subtree-add needs a clean mount point: refuse a paper directory
	// with content, silently clear an empty placeholder.
	paperDir := c.paperDir()
	entries, err := os.ReadDir(paperDir)
	switch {
	case err == nil && len(entries) > 0:
		return failure(StatusNotEmpty, c.prefix,
			PaperDirName+"/ directory is not empty",
			"remove or back up the existing content first", c.warnings)
	case err == nil:
		if err := os.Remove(paperDir); err != nil {
			return failure(StatusSubtreeFailed, c.prefix,
				fmt.Sprintf("removing placeholder %s/: %v", PaperDirName, err), "", c.warnings)
		}
	case !os.IsNotExist(err):
		return failure(StatusSubtreeFailed, c.prefix,
			fmt.Sprintf("inspecting %s/: %v", PaperDirName, err), "", c.warnings)
	}

	// Subtree-add requires a clean baseline. With AutoCommit on, pending
	// changes are committed under a fixed marker message; with it off the
	// user has to commit themselves.
	dirty, err := repo.HasUncommitted(ctx, "")
	if err != nil {
		return e.runnerFailure(c, err)
	}
	if dirty {
		if !e.AutoCommit {
			return failure(StatusDirtyWorkingTree, c.prefix,
				"uncommitted changes in the working tree",
				"commit your changes, or rerun without --no-auto-commit", c.warnings)
		}
		e.progressf("Uncommitted changes detected; committing current state before linking...")
		if err := repo.StageAll(ctx); err != nil {
			return failure(StatusSubtreeFailed, c.prefix, err.Error(), "", c.warnings)
		}
		if err := repo.Commit(ctx, PreLinkCommitMessage); err != nil {
			return failure(StatusSubtreeFailed, c.prefix, err.Error(), "", c.warnings)
		}
	}

	// From here on steps mutate repository state; completed steps push a
	// compensation that undo runs in reverse on failure.
	var undo compensations

	if err := repo.AddRemote(ctx, e.Remote, url); err != nil {
		return failure(StatusSubtreeFailed, c.prefix, err.Error(), "", c.warnings)
	}
	undo.push("remove remote "+e.Remote, func() error {
		return repo.RemoveRemote(ctx, e.Remote)
	})

	e.progressf("Fetching from Overleaf (credentials may be required)...")
	if err := repo.Fetch(ctx, e.Remote); err != nil {
		undo.run(e.Progress)
		return failure(StatusCredentialOrNetwork, c.prefix,
			fmt.Sprintf("fetch failed: %v", err),
			"check the project URL and your Overleaf git credentials", c.warnings)
	}

	e.progressf("Adding %s subtree at %s...", PaperDirName, c.prefix)
	if err := repo.SubtreeAdd(ctx, c.prefix, e.Remote, e.Branch, true); err != nil {
		undo.run(e.Progress)
		return failure(StatusSubtreeFailed, c.prefix,
			fmt.Sprintf("subtree add failed: %v", err), "", c.warnings)
	}

	return Outcome{
		Status:   StatusSuccess,
		Prefix:   c.prefix,
		Detail:   fmt.Sprintf("Overleaf project linked at %s", c.prefix),
		Warnings: c.warnings,
	}
}

// Pull merges upstream Overleaf changes into the subtree. Conflicts are
// never auto-resolved; a failed merge is reported for manual resolution.
func (e *Engine) Pull(ctx context.Context, dir string, squash bool) Outcome {
	c, repo, fail := e.resolveLinked(ctx, dir)
	if fail != nil {
		return *fail
	}

	e.progressf("Pulling from Overleaf...")
	if err := repo.SubtreePull(ctx, c.prefix, e.Remote, e.Branch, squash); err != nil {
		return failure(StatusMergeConflict, c.prefix,
			fmt.Sprintf("pull failed: %v", err),
			"resolve the merge conflicts manually, then commit", c.warnings)
	}

	return Outcome{Status: StatusSuccess, Prefix: c.prefix, Detail: "pulled from Overleaf", Warnings: c.warnings}
}

// Push publishes local subtree history to Overleaf. It refuses to run with
// uncommitted changes under the prefix — push never auto-commits, unlike
// the initial link.
func (e *Engine) Push(ctx context.Context, dir string) Outcome {
	c, repo, fail := e.resolveLinked(ctx, dir)
	if fail != nil {
		return *fail
	}

	dirty, err := repo.HasUncommitted(ctx, c.prefix)
	if err != nil {
		return e.runnerFailure(c, err)
	}
	if dirty {
		return failure(StatusDirtyWorkingTree, c.prefix,
			fmt.Sprintf("uncommitted changes in %s", c.prefix),
			fmt.Sprintf("commit first: git add %s && git commit -m 'Update paper'", c.prefix), c.warnings)
	}

	e.progressf("Pushing to Overleaf...")
	if err := repo.SubtreePush(ctx, c.prefix, e.Remote, e.Branch); err != nil {
		return failure(StatusCredentialOrNetwork, c.prefix,
			fmt.Sprintf("push failed: %v", err),
			"check your Overleaf git credentials and try again", c.warnings)
	}

	return Outcome{Status: StatusSuccess, Prefix: c.prefix, Detail: "pushed to Overleaf", Warnings: c.warnings}
}

// Report is the advisory state gathered by Status. It never reflects
// mutations: the only side effect of Status is a best-effort fetch that
// refreshes remote-tracking metadata.
type Report struct {
	Prefix      string
	RemoteURL   string
	Linked      bool
	PaperExists bool
	Changes     []string // porcelain lines under the prefix, empty when clean
	FetchNote   string   // non-empty when the advisory fetch failed
	Warnings    []string
}

// Status reports the sync state of the project. Absence of a remote or of
// the paper directory short-circuits the report but is still a successful
// outcome — status is advisory and never fails the command for them.
func (e *Engine) Status(ctx context.Context, dir string) (*Report, Outcome) {
	c, fail := e.resolve(ctx, dir)
	if fail != nil {
		return nil, *fail
	}

	rep := &Report{Prefix: c.prefix, Warnings: c.warnings}
	repo := gitx.NewRepo(e.runner, c.repoRoot)

	url, ok, err := repo.RemoteURL(ctx, e.Remote)
	if err != nil {
		out := e.runnerFailure(c, err)
		return nil, out
	}
	rep.Linked = ok
	rep.RemoteURL = url
	if !ok {
		return rep, Outcome{Status: StatusSuccess, Prefix: c.prefix, Warnings: c.warnings}
	}

	if info, err := os.Stat(c.paperDir()); err == nil && info.IsDir() {
		rep.PaperExists = true
	}
	if !rep.PaperExists {
		return rep, Outcome{Status: StatusSuccess, Prefix: c.prefix, Warnings: c.warnings}
	}

	out, err := repo.StatusPorcelain(ctx, c.prefix)
	if err != nil {
		o := e.runnerFailure(c, err)
		return nil, o
	}
	if out != "" {
		rep.Changes = strings.Split(out, "\n")
	}

	// Advisory fetch to refresh remote-tracking refs. Captured, so a
	// credential prompt can never hang status; failures are a note, not
	// an error.
	if err := repo.FetchQuiet(ctx, e.Remote); err != nil {
		rep.FetchNote = fmt.Sprintf("fetch skipped: %v", err)
	}

	return rep, Outcome{Status: StatusSuccess, Prefix: c.prefix, Warnings: c.warnings}
}

// resolveLinked runs the shared pull/push preconditions: project
// coordinates, a configured remote, and an existing paper directory.
func (e *Engine) resolveLinked(ctx context.Context, dir string) (*coords, *gitx.Repo, *Outcome) {
	c, fail := e.resolve(ctx, dir)
	if fail != nil {
		return nil, nil, fail
	}

	repo := gitx.NewRepo(e.runner, c.repoRoot)

	_, ok, err := repo.RemoteURL(ctx, e.Remote)
	if err != nil {
		out := e.runnerFailure(c, err)
		return nil, nil, &out
	}
	if !ok {
		out := failure(StatusNotLinked, c.prefix,
			"no Overleaf remote configured",
			"link Overleaf with: expaper link-overleaf <url>", c.warnings)
		return nil, nil, &out
	}

	if info, err := os.Stat(c.paperDir()); err != nil || !info.IsDir() {
		out := failure(StatusMissingSubtree, c.prefix,
			"no "+PaperDirName+"/ directory found",
			"", c.warnings)
		return nil, nil, &out
	}

	return c, repo, nil
}

// runnerFailure converts a Runner transport error (git missing, context
// cancelled) into a generic outcome.
func (e *Engine) runnerFailure(c *coords, err error) Outcome {
	return failure(StatusSubtreeFailed, c.prefix, err.Error(), "", c.warnings)
}

func (e *Engine) progressf(format string, args ...any) {
	fmt.Fprintf(e.Progress, format+"\n", args...)
}

// compensations is a small saga log: each completed mutating step records
// an undo action, and run executes them in reverse order, swallowing
// errors (rollback is best-effort) while noting them on w.
type compensations struct {
	steps []compensation
}

type compensation struct {
	name string
	fn   func() error
}

func (cs *compensations) push(name string, fn func() error) {
	cs.steps = append(cs.steps, compensation{name: name, fn: fn})
}

func (cs *compensations) run(w io.Writer) {
	for i := len(cs.steps) - 1; i >= 0; i-- {
		step := cs.steps[i]
		if err := step.fn(); err != nil {
			fmt.Fprintf(w, "rollback (%s) failed: %v\n", step.name, err)
		}
	}
}
