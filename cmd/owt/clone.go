package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/chmouel/owt/internal/gitcli"
)

// cloneCommand bootstraps the bare-repo-plus-worktrees layout owt expects:
// clone as bare, then add a first worktree for the default branch.
// Grounded on original_source/src/main.rs's run_clone.
func cloneCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "clone",
		Usage:     "clone a repository as a bare repo and create its first worktree",
		ArgsUsage: "<url> [path]",
		Action:    runClone,
	}
}

func runClone(c *urfavecli.Context) error {
	url := c.Args().Get(0)
	if url == "" {
		return fmt.Errorf("owt clone: a repository url is required\nusage: owt clone <url> [path]")
	}

	basePath := c.Args().Get(1)
	if basePath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("owt clone: %w", err)
		}
		basePath = cwd
	}

	repoName := repoNameFromURL(url)
	projectDir := filepath.Join(basePath, repoName)
	bareRepoDir := filepath.Join(projectDir, ".bare")

	ctx := context.Background()
	driver := gitcli.NewService()

	fmt.Printf("Cloning %s as a bare repository...\n", url)
	if _, err := driver.CloneBare(ctx, url, bareRepoDir); err != nil {
		return fmt.Errorf("owt clone: %w", err)
	}
	fmt.Printf("  created bare repo: %s\n", bareRepoDir)

	branch, err := driver.DefaultBranch(ctx, bareRepoDir)
	if err != nil {
		branch = "main"
	}

	worktreePath := filepath.Join(projectDir, branch)
	fmt.Printf("Creating worktree for %q...\n", branch)
	if _, err := driver.AddWorktree(ctx, bareRepoDir, worktreePath, branch, ""); err != nil {
		return fmt.Errorf("owt clone: %w", err)
	}
	fmt.Printf("  created worktree: %s\n", worktreePath)

	fmt.Printf("\nDone. To start using owt:\n  cd %s\n  owt\n", projectDir)
	return nil
}

// repoNameFromURL derives a project directory name from a clone URL,
// stripping the .git suffix and trailing slash the way git itself would
// name the checkout. Handles https, ssh (scp-like), and local paths.
func repoNameFromURL(url string) string {
	url = strings.TrimSuffix(url, "/")
	name := url
	if idx := strings.LastIndexByte(url, '/'); idx >= 0 {
		name = url[idx+1:]
	} else if idx := strings.LastIndexByte(url, ':'); idx >= 0 {
		name = url[idx+1:]
	}
	return strings.TrimSuffix(name, ".git")
}
