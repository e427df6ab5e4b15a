// Package shellintegration hands the selected worktree path back to the
// invoking shell: either through a file named by OWT_OUTPUT_FILE (read back
// by the shell function `owt setup` prints) or, absent that, by printing it
// to stdout.
package shellintegration

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputEnvVar is the environment variable owt's shell wrapper sets to a
// scratch file path before invoking the binary.
const OutputEnvVar = "OWT_OUTPUT_FILE"

// EmitSelection delivers the chosen worktree path per §6: if
// OWT_OUTPUT_FILE is set, write path there (creating parent directories as
// needed); otherwise print it to stdout. An empty path (the user quit
// without choosing) writes/prints nothing.
func EmitSelection(path string) error {
	if path == "" {
		return nil
	}

	if outFile := os.Getenv(OutputEnvVar); outFile != "" {
		if err := os.MkdirAll(filepath.Dir(outFile), 0o750); err != nil {
			return fmt.Errorf("shellintegration: creating output dir: %w", err)
		}
		if err := os.WriteFile(outFile, []byte(path+"\n"), 0o600); err != nil {
			return fmt.Errorf("shellintegration: writing output file: %w", err)
		}
		return nil
	}

	fmt.Println(path)
	return nil
}
