package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/expaper-labs/expaper/internal/project"
	"github.com/expaper-labs/expaper/internal/registry"
	"github.com/spf13/cobra"
)

var (
	toolEntrypoint   string
	toolDescription  string
	toolListRegistry bool
	toolListJSON     bool
)

func init() {
	toolAddCmd.Flags().StringVarP(&toolEntrypoint, "entrypoint", "e", "", "Tool entrypoint (e.g. '-m tool.main')")
	toolAddCmd.Flags().StringVarP(&toolDescription, "description", "d", "", "Tool description")
	toolListCmd.Flags().BoolVarP(&toolListRegistry, "registry", "r", false, "Show available tools in the registry")
	toolListCmd.Flags().BoolVar(&toolListJSON, "json", false, "Output in JSON format")
	toolCmd.AddCommand(toolAddCmd)
	toolCmd.AddCommand(toolListCmd)
	rootCmd.AddCommand(toolCmd)
}

var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Manage experiment tools",
}

var toolAddCmd = &cobra.Command{
	Use:   "add <name> [url]",
	Short: "Add a tool to the current project",
	Long: `Add a tool to the current project as a git submodule. With just a name,
the tool is looked up in the registry; with a URL, the registry is
bypassed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		root, err := project.FindRoot(cwd)
		if err != nil {
			return err
		}

		url := ""
		if len(args) == 2 {
			url = args[1]
		}

		reg, err := registry.Load()
		if err != nil {
			return err
		}
		resolved, err := reg.Resolve(args[0], url, toolEntrypoint, toolDescription, buildVersion)
		if err != nil {
			return err
		}
		for _, w := range resolved.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Adding tool: %s\n  URL: %s\n  Entrypoint: %s\n",
			resolved.Name, resolved.URL, resolved.Entrypoint)
		if err := registry.Add(cmd.Context(), root, resolved); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tool %q added successfully\n", resolved.Name)
		return nil
	},
}

var toolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List project tools, or the registry with --registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if toolListRegistry {
			return listRegistryTools(cmd)
		}
		return listProjectTools(cmd)
	},
}

func listRegistryTools(cmd *cobra.Command) error {
	reg, err := registry.Load()
	if err != nil {
		return err
	}

	if toolListJSON {
		out, err := json.MarshalIndent(reg.Tools, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling registry: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	if len(reg.Tools) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tools in registry.")
		return nil
	}

	names := make([]string, 0, len(reg.Tools))
	for name := range reg.Tools {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tURL\tDESCRIPTION")
	for _, name := range names {
		tool := reg.Tools[name]
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, tool.URL, tool.Description)
	}
	return w.Flush()
}

func listProjectTools(cmd *cobra.Command) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	root, err := project.FindRoot(cwd)
	if err != nil {
		return err
	}
	tools, err := registry.ProjectTools(root)
	if err != nil {
		return err
	}

	if toolListJSON {
		out, err := json.MarshalIndent(tools, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling project tools: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	if len(tools) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tools in this project.")
		fmt.Fprintln(cmd.OutOrStdout(), "Add tools with: expaper tool add <name>")
		return nil
	}

	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tPATH\tENTRYPOINT")
	for _, name := range names {
		tool := tools[name]
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, tool.Path, tool.Entrypoint)
	}
	return w.Flush()
}

// splitToolSpec interprets a --tools value: a git URL yields a derived
// name, anything else is a registry name.
func splitToolSpec(spec string) (name, url string) {
	for _, prefix := range []string{"http://", "https://", "git@", "git://"} {
		if strings.HasPrefix(spec, prefix) {
			base := path.Base(strings.TrimSuffix(spec, ".git"))
			return base, spec
		}
	}
	return spec, ""
}
