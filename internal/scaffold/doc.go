// Package scaffold creates new research projects from embedded templates. It
// powers the "expaper init" command, producing the experiments/paper/shared
// directory skeleton, the generated config and docs files, and a fresh git
// repository on branch main with an initial commit.
package scaffold
