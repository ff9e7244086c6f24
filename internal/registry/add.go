package registry

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// runScript executes the project's add_tool helper. Indirection so tests
// can intercept the subprocess.
var runScript = func(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

// Add installs a resolved tool into the project by running its
// experiments/scripts/add_tool helper, which clones the submodule and
// records the tool in meta.yaml. Output is captured and returned on
// failure.
func Add(ctx context.Context, projectRoot string, tool *Resolved) error {
	script := filepath.Join(projectRoot, "experiments", "scripts", "add_tool")
	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("experiments/scripts/add_tool not found; is this an expaper project?")
	}

	out, err := runScript(ctx, filepath.Join(projectRoot, "experiments"),
		"python3", script,
		tool.Name, tool.URL,
		"--entrypoint", tool.Entrypoint,
		"--description", tool.Description,
	)
	if err != nil {
		detail := strings.TrimSpace(out)
		if detail == "" {
			detail = err.Error()
		}
		return fmt.Errorf("adding tool %s: %s", tool.Name, detail)
	}
	return nil
}
