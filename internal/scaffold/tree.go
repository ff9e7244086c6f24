package scaffold

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

var (
	treeRootStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	treeDirStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	treeFileStyle = lipgloss.NewStyle().Faint(true)
)

// maxTreeDepth limits how deep RenderTree descends; a fresh project is
// fully visible within it.
const maxTreeDepth = 3

// RenderTree renders the project's directory structure as a styled tree,
// shown after a successful init. Dotfiles other than .gitignore are
// hidden.
func RenderTree(dir, name string) string {
	t := tree.Root(treeRootStyle.Render(name + "/"))
	addEntries(t, dir, 0)
	return t.String()
}

func addEntries(parent *tree.Tree, dir string, depth int) {
	if depth > maxTreeDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	// Directories first, then files, both alphabetical.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") && name != ".gitignore" {
			continue
		}
		if entry.IsDir() {
			branch := tree.Root(treeDirStyle.Render(name + "/"))
			addEntries(branch, filepath.Join(dir, name), depth+1)
			parent.Child(branch)
		} else {
			parent.Child(treeFileStyle.Render(name))
		}
	}
}
