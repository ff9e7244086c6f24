package overleaf

import (
	"path/filepath"
	"strings"
)

// ResolvePrefix computes the subtree prefix for the paper directory: the
// path of <projectRoot>/paper relative to repoRoot, in slash form. Two
// layouts are supported:
//
//   - standalone: projectRoot == repoRoot, prefix is "paper"
//   - nested: projectRoot sits below repoRoot, prefix is
//     "<relative-subdir>/paper" (e.g. "teamwork/mypaper/paper")
//
// The prefix is always rooted at the repository root, never the project
// root, because git subtree must run from the repository root.
//
// When projectRoot is not a descendant of repoRoot — which should not
// happen given how both are derived — the function falls back to "paper"
// and reports it via fallback=true so callers can surface a warning. The
// fallback is a degraded-mode default, not a correctness guarantee.
//
// This function is pure: it never touches the filesystem.
func ResolvePrefix(projectRoot, repoRoot string) (prefix string, fallback bool) {
	rel, err := filepath.Rel(repoRoot, projectRoot)
	if err != nil {
		return PaperDirName, true
	}

	rel = filepath.ToSlash(rel)
	switch {
	case rel == ".":
		return PaperDirName, false
	case rel == ".." || strings.HasPrefix(rel, "../"):
		return PaperDirName, true
	default:
		return rel + "/" + PaperDirName, false
	}
}
