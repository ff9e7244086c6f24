package overleaf

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/expaper-labs/expaper/internal/gitx"
)

// gitCall records one git invocation made through the fake runner.
type gitCall struct {
	dir         string
	args        []string
	interactive bool
}

// fakeRunner emulates the git CLI for engine tests. It keeps a remote
// table and scripted status/failure behavior, and records every call so
// tests can assert which commands ran (and which never did).
type fakeRunner struct {
	topLevel    string
	remotes     map[string]string
	status      map[string]string // pathspec -> porcelain output; "" is the whole tree
	failFetch   bool
	failSubtree map[string]bool // subtree subcommand -> force non-zero exit
	calls       []gitCall
}

func newFakeRunner(topLevel string) *fakeRunner {
	return &fakeRunner{
		topLevel:    topLevel,
		remotes:     make(map[string]string),
		status:      make(map[string]string),
		failSubtree: make(map[string]bool),
	}
}

func (f *fakeRunner) Run(_ context.Context, dir string, args ...string) (*gitx.Result, error) {
	return f.dispatch(dir, args, false), nil
}

func (f *fakeRunner) RunInteractive(_ context.Context, dir string, args ...string) (*gitx.Result, error) {
	return f.dispatch(dir, args, true), nil
}

func (f *fakeRunner) dispatch(dir string, args []string, interactive bool) *gitx.Result {
	f.calls = append(f.calls, gitCall{dir: dir, args: args, interactive: interactive})

	switch args[0] {
	case "rev-parse":
		return &gitx.Result{Stdout: f.topLevel + "\n"}
	case "remote":
		name := args[2]
		switch args[1] {
		case "get-url":
			if url, ok := f.remotes[name]; ok {
				return &gitx.Result{Stdout: url + "\n"}
			}
			return &gitx.Result{ExitCode: 2, Stderr: "error: No such remote '" + name + "'"}
		case "add":
			if _, ok := f.remotes[name]; ok {
				return &gitx.Result{ExitCode: 3, Stderr: "error: remote " + name + " already exists."}
			}
			f.remotes[name] = args[3]
			return &gitx.Result{}
		case "remove":
			delete(f.remotes, name)
			return &gitx.Result{}
		}
	case "status":
		pathspec := ""
		if len(args) > 2 {
			pathspec = args[2]
		}
		return &gitx.Result{Stdout: f.status[pathspec]}
	case "add", "commit":
		return &gitx.Result{}
	case "fetch":
		if f.failFetch {
			return &gitx.Result{ExitCode: 128, Stderr: "fatal: Authentication failed"}
		}
		return &gitx.Result{}
	case "subtree":
		if f.failSubtree[args[1]] {
			return &gitx.Result{ExitCode: 1, Stderr: "fatal: working tree has modifications"}
		}
		return &gitx.Result{}
	}
	return &gitx.Result{ExitCode: 1, Stderr: "fake: unexpected command " + strings.Join(args, " ")}
}

// called reports whether any recorded invocation starts with the given
// arguments.
func (f *fakeRunner) called(first ...string) bool {
	return f.find(first...) != nil
}

func (f *fakeRunner) find(first ...string) *gitCall {
	for i := range f.calls {
		call := &f.calls[i]
		if len(call.args) < len(first) {
			continue
		}
		match := true
		for j, want := range first {
			if call.args[j] != want {
				match = false
				break
			}
		}
		if match {
			return call
		}
	}
	return nil
}

// makeProject builds a project directory with an experiments/ marker and,
// optionally, a paper/ directory.
func makeProject(t *testing.T, withPaper bool) string {
	t.Helper()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "experiments"), 0755); err != nil {
		t.Fatal(err)
	}
	if withPaper {
		if err := os.Mkdir(filepath.Join(root, "paper"), 0755); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestLinkStandalone(t *testing.T) {
	root := makeProject(t, true) // empty paper/ placeholder
	f := newFakeRunner(root)
	e := NewEngine(f)

	out := e.Link(context.Background(), root, "https://git.overleaf.com/abc123")
	if !out.OK() {
		t.Fatalf("Link failed: %+v", out)
	}
	if out.Prefix != "paper" {
		t.Errorf("prefix = %q, want %q", out.Prefix, "paper")
	}
	if len(out.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", out.Warnings)
	}

	if f.remotes["overleaf"] != "https://git.overleaf.com/abc123" {
		t.Errorf("remote not configured: %v", f.remotes)
	}
	if !f.called("fetch", "overleaf") {
		t.Error("expected a fetch from overleaf")
	}
	add := f.find("subtree", "add")
	if add == nil {
		t.Fatal("expected a subtree add")
	}
	wantArgs := []string{"subtree", "add", "--prefix=paper", "overleaf", "master", "--squash"}
	if strings.Join(add.args, " ") != strings.Join(wantArgs, " ") {
		t.Errorf("subtree add args = %v, want %v", add.args, wantArgs)
	}
	if add.dir != root {
		t.Errorf("subtree add ran in %q, want repo root %q", add.dir, root)
	}

	// The empty placeholder must be cleared before mounting.
	if _, err := os.Stat(filepath.Join(root, "paper")); !os.IsNotExist(err) {
		t.Error("placeholder paper/ directory should have been removed")
	}
}

func TestLinkNestedMonorepo(t *testing.T) {
	repoRoot := t.TempDir()
	projectRoot := filepath.Join(repoRoot, "teamwork", "mypaper")
	if err := os.MkdirAll(filepath.Join(projectRoot, "experiments"), 0755); err != nil {
		t.Fatal(err)
	}

	f := newFakeRunner(repoRoot)
	e := NewEngine(f)

	out := e.Link(context.Background(), projectRoot, "https://git.overleaf.com/abc123")
	if !out.OK() {
		t.Fatalf("Link failed: %+v", out)
	}
	want := "teamwork/mypaper/paper"
	if out.Prefix != want {
		t.Errorf("prefix = %q, want %q", out.Prefix, want)
	}

	add := f.find("subtree", "add")
	if add == nil {
		t.Fatal("expected a subtree add")
	}
	if add.args[2] != "--prefix="+want {
		t.Errorf("subtree add prefix arg = %q, want %q", add.args[2], "--prefix="+want)
	}
	if add.dir != repoRoot {
		t.Errorf("subtree add ran in %q, want repo root %q", add.dir, repoRoot)
	}
}

func TestLinkAlreadyLinked(t *testing.T) {
	root := makeProject(t, false)
	f := newFakeRunner(root)
	f.remotes["overleaf"] = "https://git.overleaf.com/existing"
	e := NewEngine(f)

	out := e.Link(context.Background(), root, "https://git.overleaf.com/other")
	if out.Status != StatusAlreadyLinked {
		t.Fatalf("status = %q, want %q", out.Status, StatusAlreadyLinked)
	}

	// The existing remote must be untouched, and no mutating command run.
	if f.remotes["overleaf"] != "https://git.overleaf.com/existing" {
		t.Errorf("existing remote was modified: %v", f.remotes)
	}
	if f.called("fetch") || f.called("subtree") {
		t.Error("no fetch or subtree command may run after AlreadyLinked")
	}
}

func TestLinkNonEmptyPaper(t *testing.T) {
	root := makeProject(t, true)
	if err := os.WriteFile(filepath.Join(root, "paper", "main.tex"), []byte("\\documentclass{article}"), 0644); err != nil {
		t.Fatal(err)
	}
	f := newFakeRunner(root)
	e := NewEngine(f)

	out := e.Link(context.Background(), root, "https://git.overleaf.com/abc123")
	if out.Status != StatusNotEmpty {
		t.Fatalf("status = %q, want %q", out.Status, StatusNotEmpty)
	}
	if f.called("remote", "add") || f.called("fetch") || f.called("subtree") {
		t.Error("no mutating command may run when paper/ is not empty")
	}
	if _, err := os.Stat(filepath.Join(root, "paper", "main.tex")); err != nil {
		t.Error("existing paper content must be left in place")
	}
}

func TestLinkAutoCommitsDirtyTree(t *testing.T) {
	root := makeProject(t, false)
	f := newFakeRunner(root)
	f.status[""] = " M experiments/configs/meta.yaml"
	e := NewEngine(f)

	out := e.Link(context.Background(), root, "https://git.overleaf.com/abc123")
	if !out.OK() {
		t.Fatalf("Link failed: %+v", out)
	}
	if !f.called("add", ".") {
		t.Error("expected pending changes to be staged")
	}
	commit := f.find("commit", "-m")
	if commit == nil {
		t.Fatal("expected an auto-commit")
	}
	if commit.args[2] != PreLinkCommitMessage {
		t.Errorf("commit message = %q, want %q", commit.args[2], PreLinkCommitMessage)
	}
}

func TestLinkAutoCommitDisabled(t *testing.T) {
	root := makeProject(t, false)
	f := newFakeRunner(root)
	f.status[""] = " M experiments/configs/meta.yaml"
	e := NewEngine(f)
	e.AutoCommit = false

	out := e.Link(context.Background(), root, "https://git.overleaf.com/abc123")
	if out.Status != StatusDirtyWorkingTree {
		t.Fatalf("status = %q, want %q", out.Status, StatusDirtyWorkingTree)
	}
	if f.called("commit") || f.called("remote", "add") {
		t.Error("no commit or remote add may run when auto-commit is disabled")
	}
}

func TestLinkFetchFailureRollsBackRemote(t *testing.T) {
	root := makeProject(t, false)
	f := newFakeRunner(root)
	f.failFetch = true
	e := NewEngine(f)

	out := e.Link(context.Background(), root, "https://git.overleaf.com/abc123")
	if out.Status != StatusCredentialOrNetwork {
		t.Fatalf("status = %q, want %q", out.Status, StatusCredentialOrNetwork)
	}
	if !f.called("remote", "remove", "overleaf") {
		t.Error("expected the just-added remote to be rolled back")
	}
	if _, ok := f.remotes["overleaf"]; ok {
		t.Error("remote should be gone after rollback")
	}
	if f.called("subtree") {
		t.Error("subtree add must not be attempted after a failed fetch")
	}
}

func TestLinkSubtreeFailureRollsBackRemote(t *testing.T) {
	root := makeProject(t, false)
	f := newFakeRunner(root)
	f.failSubtree["add"] = true
	e := NewEngine(f)

	out := e.Link(context.Background(), root, "https://git.overleaf.com/abc123")
	if out.Status != StatusSubtreeFailed {
		t.Fatalf("status = %q, want %q", out.Status, StatusSubtreeFailed)
	}
	if _, ok := f.remotes["overleaf"]; ok {
		t.Error("remote should be gone after rollback")
	}
}

func TestLinkURLWarning(t *testing.T) {
	root := makeProject(t, false)
	f := newFakeRunner(root)
	e := NewEngine(f)

	out := e.Link(context.Background(), root, "https://example.com/proj")
	if !out.OK() {
		t.Fatalf("Link failed: %+v", out)
	}
	if len(out.Warnings) != 1 || !strings.Contains(out.Warnings[0], "Overleaf") {
		t.Errorf("expected an URL shape warning, got %v", out.Warnings)
	}
}

func TestLinkOutsideProject(t *testing.T) {
	dir := t.TempDir() // no markers anywhere under the temp root
	f := newFakeRunner(dir)
	e := NewEngine(f)

	out := e.Link(context.Background(), dir, "https://git.overleaf.com/abc123")
	if out.Status != StatusNotInProject {
		t.Fatalf("status = %q, want %q", out.Status, StatusNotInProject)
	}
	if len(f.calls) != 0 {
		t.Errorf("no git command may run outside a project, got %d calls", len(f.calls))
	}
}

func TestPullNotLinked(t *testing.T) {
	root := makeProject(t, true)
	f := newFakeRunner(root)
	e := NewEngine(f)

	out := e.Pull(context.Background(), root, true)
	if out.Status != StatusNotLinked {
		t.Fatalf("status = %q, want %q", out.Status, StatusNotLinked)
	}
	if f.called("subtree") {
		t.Error("subtree pull must not run without a remote")
	}
}

func TestPullMissingPaper(t *testing.T) {
	root := makeProject(t, false)
	f := newFakeRunner(root)
	f.remotes["overleaf"] = "https://git.overleaf.com/abc123"
	e := NewEngine(f)

	out := e.Pull(context.Background(), root, true)
	if out.Status != StatusMissingSubtree {
		t.Fatalf("status = %q, want %q", out.Status, StatusMissingSubtree)
	}
}

func TestPullSquashFlag(t *testing.T) {
	for _, squash := range []bool{true, false} {
		root := makeProject(t, true)
		f := newFakeRunner(root)
		f.remotes["overleaf"] = "https://git.overleaf.com/abc123"
		e := NewEngine(f)

		out := e.Pull(context.Background(), root, squash)
		if !out.OK() {
			t.Fatalf("Pull(squash=%v) failed: %+v", squash, out)
		}
		pull := f.find("subtree", "pull")
		if pull == nil {
			t.Fatal("expected a subtree pull")
		}
		hasSquash := pull.args[len(pull.args)-1] == "--squash"
		if hasSquash != squash {
			t.Errorf("squash=%v but args were %v", squash, pull.args)
		}
	}
}

func TestPullConflict(t *testing.T) {
	root := makeProject(t, true)
	f := newFakeRunner(root)
	f.remotes["overleaf"] = "https://git.overleaf.com/abc123"
	f.failSubtree["pull"] = true
	e := NewEngine(f)

	out := e.Pull(context.Background(), root, true)
	if out.Status != StatusMergeConflict {
		t.Fatalf("status = %q, want %q", out.Status, StatusMergeConflict)
	}
	if !strings.Contains(out.Hint, "conflict") {
		t.Errorf("hint should direct the user to resolve conflicts, got %q", out.Hint)
	}
}

func TestPushDirtyPrefix(t *testing.T) {
	root := makeProject(t, true)
	f := newFakeRunner(root)
	f.remotes["overleaf"] = "https://git.overleaf.com/abc123"
	f.status["paper"] = " M paper/main.tex"
	e := NewEngine(f)

	out := e.Push(context.Background(), root)
	if out.Status != StatusDirtyWorkingTree {
		t.Fatalf("status = %q, want %q", out.Status, StatusDirtyWorkingTree)
	}
	if f.called("subtree", "push") {
		t.Error("subtree push must not run with uncommitted changes under the prefix")
	}
}

func TestPushSuccess(t *testing.T) {
	root := makeProject(t, true)
	f := newFakeRunner(root)
	f.remotes["overleaf"] = "https://git.overleaf.com/abc123"
	e := NewEngine(f)

	out := e.Push(context.Background(), root)
	if !out.OK() {
		t.Fatalf("Push failed: %+v", out)
	}
	push := f.find("subtree", "push")
	if push == nil {
		t.Fatal("expected a subtree push")
	}
	want := []string{"subtree", "push", "--prefix=paper", "overleaf", "master"}
	if strings.Join(push.args, " ") != strings.Join(want, " ") {
		t.Errorf("subtree push args = %v, want %v", push.args, want)
	}
}

func TestPushFailure(t *testing.T) {
	root := makeProject(t, true)
	f := newFakeRunner(root)
	f.remotes["overleaf"] = "https://git.overleaf.com/abc123"
	f.failSubtree["push"] = true
	e := NewEngine(f)

	out := e.Push(context.Background(), root)
	if out.Status != StatusCredentialOrNetwork {
		t.Fatalf("status = %q, want %q", out.Status, StatusCredentialOrNetwork)
	}
}

func TestStatusNotLinked(t *testing.T) {
	root := makeProject(t, true)
	f := newFakeRunner(root)
	e := NewEngine(f)

	rep, out := e.Status(context.Background(), root)
	if !out.OK() {
		t.Fatalf("Status failed: %+v", out)
	}
	if rep.Linked {
		t.Error("report should show no remote configured")
	}
	// Unlinked status short-circuits before any fetch.
	if f.called("fetch") {
		t.Error("status must not fetch without a remote")
	}
}

func TestStatusFull(t *testing.T) {
	root := makeProject(t, true)
	f := newFakeRunner(root)
	f.remotes["overleaf"] = "https://git.overleaf.com/abc123"
	f.status["paper"] = " M paper/main.tex\n?? paper/figs/plot.pdf"
	f.failFetch = true
	e := NewEngine(f)

	rep, out := e.Status(context.Background(), root)
	if !out.OK() {
		t.Fatalf("Status failed: %+v", out)
	}
	if !rep.Linked || rep.RemoteURL != "https://git.overleaf.com/abc123" {
		t.Errorf("remote not reported: %+v", rep)
	}
	if !rep.PaperExists {
		t.Error("paper directory existence not reported")
	}
	if len(rep.Changes) != 2 {
		t.Errorf("changes = %v, want 2 entries", rep.Changes)
	}
	// The advisory fetch failed, but status still succeeds.
	if rep.FetchNote == "" {
		t.Error("expected a fetch note for the failed advisory fetch")
	}

	// Status never mutates tracked content.
	for _, call := range f.calls {
		switch call.args[0] {
		case "add", "commit", "subtree", "remote":
			if call.args[0] == "remote" && call.args[1] == "get-url" {
				continue
			}
			t.Errorf("status ran mutating command: %v", call.args)
		}
	}
}
