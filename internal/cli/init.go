package cli

import (
	"fmt"

	"github.com/expaper-labs/expaper/internal/config"
	"github.com/expaper-labs/expaper/internal/gitx"
	"github.com/expaper-labs/expaper/internal/paper"
	"github.com/expaper-labs/expaper/internal/registry"
	"github.com/expaper-labs/expaper/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	initPath     string
	initTools    []string
	initOverleaf string
	initTemplate string
	initDryRun   bool
)

func init() {
	initCmd.Flags().StringVarP(&initPath, "path", "p", ".", "Parent directory for the project")
	initCmd.Flags().StringArrayVarP(&initTools, "tools", "t", nil, "Tools to add (registry name or git URL), repeatable")
	initCmd.Flags().StringVarP(&initOverleaf, "overleaf", "o", "", "Overleaf git URL to link")
	initCmd.Flags().StringVar(&initTemplate, "template", "", "Paper template to apply (default from config, else blank)")
	initCmd.Flags().BoolVar(&initDryRun, "dry-run", false, "Show what would be created without creating it")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a new research project",
	Long: `Create a new research project: the experiments/paper/shared directory
skeleton, helper scripts, a git repository on branch main, and either a
linked Overleaf project (--overleaf) or a local paper template.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		out := cmd.OutOrStdout()

		if err := gitx.EnsureGit(); err != nil {
			return err
		}
		config.Load()

		template := initTemplate
		if template == "" {
			template = config.Get(config.KeyDefaultTemplate)
		}
		if template == "" {
			template = "blank"
		}

		if initDryRun {
			fmt.Fprintf(out, "Dry run: would create project %s\n", name)
		} else {
			fmt.Fprintf(out, "Creating project: %s\n", name)
		}

		runner := &gitx.ExecRunner{}
		res, err := scaffold.Create(cmd.Context(), runner, scaffold.Options{
			Name:      name,
			ParentDir: initPath,
			Author:    config.Get(config.KeyAuthor),
			DryRun:    initDryRun,
			Out:       out,
		})
		if err != nil {
			return err
		}

		if initDryRun {
			if initOverleaf != "" {
				fmt.Fprintf(out, "  link Overleaf %s\n", initOverleaf)
			} else {
				fmt.Fprintf(out, "  apply paper template %s\n", template)
			}
			for _, tool := range initTools {
				fmt.Fprintf(out, "  add tool %s\n", tool)
			}
			return nil
		}

		if initOverleaf != "" {
			fmt.Fprintln(out, "Linking Overleaf project...")
			engine := newEngine(cmd)
			if err := finishOutcome(cmd, engine.Link(cmd.Context(), res.Dir, initOverleaf)); err != nil {
				return fmt.Errorf("project created at %s, but linking failed: %w", res.Dir, err)
			}
		} else if err := paper.Create(res.Dir, template); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v; paper/ left empty\n", err)
		}

		if len(initTools) > 0 {
			if err := addTools(cmd, res.Dir, initTools); err != nil {
				return fmt.Errorf("project created at %s, but adding tools failed: %w", res.Dir, err)
			}
		}

		fmt.Fprintf(out, "\nProject created successfully.\n\n")
		fmt.Fprintln(out, scaffold.RenderTree(res.Dir, name))
		fmt.Fprintf(out, "\ncd %s\n", res.Dir)
		if initOverleaf == "" {
			fmt.Fprintln(out, "\nTip: link Overleaf later with:")
			fmt.Fprintln(out, "  expaper link-overleaf https://git.overleaf.com/YOUR_PROJECT_ID")
		}
		return nil
	},
}

// addTools installs each requested tool; names are resolved through the
// registry, URLs are taken as-is.
func addTools(cmd *cobra.Command, projectRoot string, tools []string) error {
	reg, err := registry.Load()
	if err != nil {
		return err
	}
	for _, spec := range tools {
		name, url := splitToolSpec(spec)
		resolved, err := reg.Resolve(name, url, "", "", buildVersion)
		if err != nil {
			return err
		}
		for _, w := range resolved.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Adding tool: %s\n", resolved.Name)
		if err := registry.Add(cmd.Context(), projectRoot, resolved); err != nil {
			return err
		}
	}
	return nil
}
