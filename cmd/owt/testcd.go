package main

import (
	"context"
	"fmt"
	"os"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/chmouel/owt/internal/gitcli"
)

// testCDCommand runs repository detection without starting the TUI and
// prints the bare repository owt would use for a given directory, so a
// shell wrapper (or its author) can debug it. It writes nothing to
// OWT_OUTPUT_FILE.
func testCDCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "test-cd",
		Usage:     "print the bare repository owt would use for the given path, for debugging",
		ArgsUsage: "[path]",
		Action:    runTestCD,
	}
}

func runTestCD(c *urfavecli.Context) error {
	path := c.Args().Get(0)
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("owt test-cd: %w", err)
		}
		path = cwd
	}

	ctx := context.Background()
	bareRepoDir, err := discoverBareRepo(ctx, gitcli.NewService(), path)
	if err != nil {
		return err
	}

	fmt.Println(bareRepoDir)
	return nil
}
