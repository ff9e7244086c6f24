package gitx

import (
	"context"
	"fmt"
	"strings"
)

// Repo represents a git repository at a specific directory. All operations
// run with that directory as the working directory — there is no default;
// callers must always say which repository they mean.
type Repo struct {
	runner Runner
	dir    string
}

// NewRepo returns a Repo targeting the given directory.
func NewRepo(runner Runner, dir string) *Repo {
	return &Repo{runner: runner, dir: dir}
}

// Dir returns the repository directory.
func (r *Repo) Dir() string {
	return r.dir
}

// TopLevel asks git for the top-level directory of the repository
// containing dir. This trusts git's own notion of the root, which can
// differ from a naive ancestor walk (worktrees, GIT_DIR overrides).
func TopLevel(ctx context.Context, runner Runner, dir string) (string, error) {
	res, err := runner.Run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("resolving repository root: %s", strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout), nil
}

// RemoteURL returns the URL of the named remote. An unconfigured remote is
// a normal result, reported via ok=false with a nil error.
func (r *Repo) RemoteURL(ctx context.Context, name string) (url string, ok bool, err error) {
	res, err := r.runner.Run(ctx, r.dir, "remote", "get-url", name)
	if err != nil {
		return "", false, err
	}
	if res.ExitCode != 0 {
		return "", false, nil
	}
	return strings.TrimSpace(res.Stdout), true, nil
}

// AddRemote registers a new remote. Fails if a remote of the same name
// already exists — it never overwrites.
func (r *Repo) AddRemote(ctx context.Context, name, url string) error {
	res, err := r.runner.Run(ctx, r.dir, "remote", "add", name, url)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("adding remote %s: %s", name, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// RemoveRemote deletes the named remote. Used for rollback after partial
// link failures; callers treat errors as best-effort.
func (r *Repo) RemoveRemote(ctx context.Context, name string) error {
	res, err := r.runner.Run(ctx, r.dir, "remote", "remove", name)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("removing remote %s: %s", name, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// Fetch fetches from the named remote with the terminal attached, so git
// can prompt for credentials and show progress.
func (r *Repo) Fetch(ctx context.Context, remote string) error {
	res, err := r.runner.RunInteractive(ctx, r.dir, "fetch", remote)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("fetching from %s: exit status %d", remote, res.ExitCode)
	}
	return nil
}

// FetchQuiet fetches with captured output. Used by status, where a
// credential prompt must never hang the command.
func (r *Repo) FetchQuiet(ctx context.Context, remote string) error {
	res, err := r.runner.Run(ctx, r.dir, "fetch", remote)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("fetching from %s: %s", remote, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// StatusPorcelain returns `git status --porcelain` output, optionally
// limited to a pathspec. Empty output means a clean tree.
func (r *Repo) StatusPorcelain(ctx context.Context, pathspec string) (string, error) {
	args := []string{"status", "--porcelain"}
	if pathspec != "" {
		args = append(args, pathspec)
	}
	res, err := r.runner.Run(ctx, r.dir, args...)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("checking status: %s", strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout), nil
}

// HasUncommitted reports whether the working tree (or the pathspec within
// it) has uncommitted changes.
func (r *Repo) HasUncommitted(ctx context.Context, pathspec string) (bool, error) {
	out, err := r.StatusPorcelain(ctx, pathspec)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// StageAll stages every change in the working tree.
func (r *Repo) StageAll(ctx context.Context) error {
	res, err := r.runner.Run(ctx, r.dir, "add", ".")
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("staging changes: %s", strings.TrimSpace(res.Stderr))
	}
	return nil
}

// Commit records staged changes with the given message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	res, err := r.runner.Run(ctx, r.dir, "commit", "-m", message)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("committing: %s", strings.TrimSpace(res.Stderr))
	}
	return nil
}

// Init initializes a new repository at the Repo's directory.
func (r *Repo) Init(ctx context.Context) error {
	res, err := r.runner.Run(ctx, r.dir, "init")
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("initializing repository: %s", strings.TrimSpace(res.Stderr))
	}
	return nil
}

// RenameBranch renames the current branch.
func (r *Repo) RenameBranch(ctx context.Context, name string) error {
	res, err := r.runner.Run(ctx, r.dir, "branch", "-m", name)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("renaming branch: %s", strings.TrimSpace(res.Stderr))
	}
	return nil
}

// SubtreeAdd mounts the remote branch as a subtree at prefix. Must run
// from the repository root; git subtree refuses to run elsewhere.
func (r *Repo) SubtreeAdd(ctx context.Context, prefix, remote, branch string, squash bool) error {
	args := []string{"subtree", "add", "--prefix=" + prefix, remote, branch}
	if squash {
		args = append(args, "--squash")
	}
	return r.runSubtree(ctx, "add", args)
}

// SubtreePull merges upstream subtree changes into prefix.
func (r *Repo) SubtreePull(ctx context.Context, prefix, remote, branch string, squash bool) error {
	args := []string{"subtree", "pull", "--prefix=" + prefix, remote, branch}
	if squash {
		args = append(args, "--squash")
	}
	return r.runSubtree(ctx, "pull", args)
}

// SubtreePush extracts the subtree history at prefix and pushes it to the
// remote branch.
func (r *Repo) SubtreePush(ctx context.Context, prefix, remote, branch string) error {
	args := []string{"subtree", "push", "--prefix=" + prefix, remote, branch}
	return r.runSubtree(ctx, "push", args)
}

func (r *Repo) runSubtree(ctx context.Context, op string, args []string) error {
	res, err := r.runner.RunInteractive(ctx, r.dir, args...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("subtree %s: exit status %d", op, res.ExitCode)
	}
	return nil
}
