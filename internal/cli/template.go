package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/expaper-labs/expaper/internal/paper"
	"github.com/expaper-labs/expaper/internal/project"
	"github.com/spf13/cobra"
)

var templateOutput string

func init() {
	templateExportCmd.Flags().StringVarP(&templateOutput, "output", "o", "paper.zip", "Output ZIP filename")
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateCreateCmd)
	templateCmd.AddCommand(templateExportCmd)
	rootCmd.AddCommand(templateCmd)
}

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage paper templates",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available paper templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		templates := paper.List()
		if len(templates) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No paper templates available.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION")
		for _, tmpl := range templates {
			fmt.Fprintf(w, "%s\t%s\n", tmpl.Name, tmpl.Description)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "\nFor conference templates (ICML, NeurIPS, ICLR), use Overleaf's gallery:")
		fmt.Fprintln(cmd.OutOrStdout(), "  1. Create a project from a template at overleaf.com/gallery")
		fmt.Fprintln(cmd.OutOrStdout(), "  2. Link it with: expaper link-overleaf <url>")
		return nil
	},
}

var templateCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create paper/ from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		root, err := project.FindRoot(cwd)
		if err != nil {
			return err
		}
		if err := paper.Create(root, args[0]); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created paper/ from template %q\n", args[0])
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "  1. Edit paper/main.tex")
		fmt.Fprintln(out, "  2. Upload to Overleaf or link an existing project")
		fmt.Fprintln(out, "  3. expaper link-overleaf <url>")
		return nil
	},
}

var templateExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export paper/ as a ZIP for Overleaf import",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		root, err := project.FindRoot(cwd)
		if err != nil {
			return err
		}

		overwrote, err := paper.ExportZip(root, templateOutput)
		if err != nil {
			return err
		}
		if overwrote {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: overwrote %s\n", templateOutput)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Exported to %s\n", templateOutput)
		fmt.Fprintln(out, "\nUpload this ZIP to Overleaf:")
		fmt.Fprintln(out, "  1. Go to overleaf.com")
		fmt.Fprintln(out, "  2. Click 'New Project' -> 'Upload Project'")
		fmt.Fprintf(out, "  3. Upload %s\n", templateOutput)
		return nil
	},
}
