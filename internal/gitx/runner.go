package gitx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Result holds the outcome of one git invocation. ExitCode is zero on
// success; Stdout and Stderr are empty for interactive runs because the
// streams went straight to the terminal.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes git commands in a given directory.
//
// Run captures output and is used for queries and quiet mutations.
// RunInteractive attaches the terminal so git can prompt for credentials
// and print progress (fetch, subtree add/pull/push).
//
// A non-zero exit status is reported through Result.ExitCode with a nil
// error; the error return is reserved for failures to run git at all
// (missing binary, cancelled context).
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (*Result, error)
	RunInteractive(ctx context.Context, dir string, args ...string) (*Result, error)
}

// ExecRunner is the production Runner backed by the git binary on PATH.
type ExecRunner struct{}

// Run executes git with captured stdout/stderr.
func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (*Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	return res, finishRun(res, err)
}

// RunInteractive executes git with the process terminal attached.
func (ExecRunner) RunInteractive(ctx context.Context, dir string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	res := &Result{}
	return res, finishRun(res, err)
}

// finishRun folds an exec error into the result: a non-zero exit becomes
// Result.ExitCode, anything else (spawn failure, context cancellation)
// stays an error.
func finishRun(res *Result, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return nil
	}
	return fmt.Errorf("running git: %w", err)
}

// EnsureGit checks that git is available on PATH.
func EnsureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git is required but not found in PATH")
	}
	return nil
}
