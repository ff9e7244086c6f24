package cli

import (
	"fmt"
	"os"

	"github.com/expaper-labs/expaper/internal/gitx"
	"github.com/expaper-labs/expaper/internal/overleaf"
	"github.com/expaper-labs/expaper/internal/project"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the expaper environment",
	Long:  `Run diagnostic checks: git availability, project detection, and Overleaf link state.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ok := func(format string, a ...any) { fmt.Fprintf(out, "  ok  "+format+"\n", a...) }
		bad := func(format string, a ...any) { fmt.Fprintf(out, "  !!  "+format+"\n", a...) }

		if err := gitx.EnsureGit(); err != nil {
			bad("%v", err)
			return nil // nothing else to check without git
		}
		ok("git found in PATH")

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		root, err := project.FindRoot(cwd)
		if err != nil {
			bad("not inside an expaper project (no experiments/ or paper/ in any ancestor)")
			return nil
		}
		ok("project root: %s", root)

		runner := &gitx.ExecRunner{}
		repoRoot, err := gitx.TopLevel(cmd.Context(), runner, cwd)
		if err != nil {
			bad("not inside a git repository: %v", err)
			return nil
		}
		ok("repository root: %s", repoRoot)

		prefix, fallback := overleaf.ResolvePrefix(root, repoRoot)
		if fallback {
			bad("project root is outside the repository; assuming prefix %q", prefix)
		} else {
			ok("subtree prefix: %s", prefix)
		}

		repo := gitx.NewRepo(runner, repoRoot)
		url, linked, err := repo.RemoteURL(cmd.Context(), overleaf.DefaultRemote)
		if err != nil {
			return err
		}
		if linked {
			ok("Overleaf remote: %s", url)
		} else {
			bad("no Overleaf remote; link with: expaper link-overleaf <url>")
		}
		return nil
	},
}
