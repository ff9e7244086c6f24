package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var syncSquash bool

func init() {
	syncPullCmd.Flags().BoolVar(&syncSquash, "squash", true,
		"Squash pulled Overleaf commits into one (--squash=false keeps full history)")
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncStatusCmd)
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize paper/ with the linked Overleaf project",
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull collaborator changes from Overleaf",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		return finishOutcome(cmd, newEngine(cmd).Pull(cmd.Context(), cwd, syncSquash))
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push local paper changes to Overleaf",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		return finishOutcome(cmd, newEngine(cmd).Push(cmd.Context(), cwd))
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the Overleaf sync state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		rep, out := newEngine(cmd).Status(cmd.Context(), cwd)
		if !out.OK() {
			return finishOutcome(cmd, out)
		}

		w := cmd.OutOrStdout()
		for _, warning := range rep.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", warning)
		}

		if !rep.Linked {
			fmt.Fprintln(w, "Not linked to Overleaf.")
			fmt.Fprintln(w, "Link with: expaper link-overleaf <url>")
			return nil
		}
		fmt.Fprintf(w, "Overleaf remote: %s\n", rep.RemoteURL)
		fmt.Fprintf(w, "Subtree prefix:  %s\n", rep.Prefix)

		if !rep.PaperExists {
			fmt.Fprintln(w, "paper/ directory is missing. Pull it with: expaper sync pull")
			return nil
		}

		if len(rep.Changes) == 0 {
			fmt.Fprintln(w, "paper/ is clean.")
		} else {
			fmt.Fprintf(w, "Uncommitted changes in %s:\n", rep.Prefix)
			for _, line := range rep.Changes {
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
		if rep.FetchNote != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Note: %s\n", rep.FetchNote)
		}
		return nil
	},
}
