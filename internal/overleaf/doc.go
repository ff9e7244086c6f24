// Package overleaf implements the Overleaf synchronization engine. A
// project's paper/ directory is mounted as a git subtree whose upstream is
// the Overleaf project's git repository; the engine drives the four sync
// operations (link, pull, push, status) against that subtree.
//
// Nothing is persisted between calls: each operation re-resolves the
// project root, repository root, and subtree prefix from the filesystem,
// checks its preconditions, and only then issues mutating git commands.
// Every operation returns an Outcome value rather than an error so callers
// can present precise, actionable messages for each failure mode.
package overleaf
