package cli

import (
	"errors"
	"fmt"

	"github.com/expaper-labs/expaper/internal/branding"
	"github.com/expaper-labs/expaper/internal/gitx"
	"github.com/expaper-labs/expaper/internal/overleaf"
	"github.com/spf13/cobra"
)

// newEngine builds a sync engine wired to the real git binary, with
// progress notes going to stderr so stdout stays clean for results.
func newEngine(cmd *cobra.Command) *overleaf.Engine {
	engine := overleaf.NewEngine(&gitx.ExecRunner{})
	engine.HostPrefix = branding.OverleafGitHost()
	engine.Progress = cmd.ErrOrStderr()
	return engine
}

// finishOutcome prints an engine outcome and converts failures into an
// error so cobra exits non-zero.
func finishOutcome(cmd *cobra.Command, out overleaf.Outcome) error {
	for _, w := range out.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}
	if out.OK() {
		if out.Detail != "" {
			fmt.Fprintln(cmd.OutOrStdout(), out.Detail)
		}
		return nil
	}
	if out.Hint != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Hint: %s\n", out.Hint)
	}
	return errors.New(out.Detail)
}
