package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var linkNoAutoCommit bool

func init() {
	linkCmd.Flags().BoolVar(&linkNoAutoCommit, "no-auto-commit", false,
		"Refuse to link with uncommitted changes instead of committing them")
	rootCmd.AddCommand(linkCmd)
}

var linkCmd = &cobra.Command{
	Use:   "link-overleaf <url>",
	Short: "Link an existing Overleaf project",
	Long: `Link an existing Overleaf project by mounting its git repository as a
subtree at paper/. Use this after creating a project without --overleaf.

The URL comes from the Overleaf project menu (Git):
  https://git.overleaf.com/<project-id>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		engine := newEngine(cmd)
		engine.AutoCommit = !linkNoAutoCommit
		return finishOutcome(cmd, engine.Link(cmd.Context(), cwd, args[0]))
	},
}
