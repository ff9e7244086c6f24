package project

import (
	"errors"
	"os"
	"path/filepath"
)

// Marker directories that identify a project root. A directory qualifies
// when at least one of them exists.
const (
	ExperimentsDir = "experiments"
	PaperDir       = "paper"
)

// ErrNotInProject is returned when no ancestor of the start directory
// contains a marker directory. Callers treat this as a normal, expected
// outcome, not a crash.
var ErrNotInProject = errors.New("not inside an expaper project")

// FindRoot walks startDir and its ancestors (closest first) and returns
// the first directory containing experiments/ or paper/. There is no
// implicit default: when no ancestor qualifies, ErrNotInProject is
// returned.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if hasMarker(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotInProject
		}
		dir = parent
	}
}

func hasMarker(dir string) bool {
	for _, marker := range []string{ExperimentsDir, PaperDir} {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
