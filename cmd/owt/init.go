package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/chmouel/owt/internal/gitcli"
)

// initCommand prints a conversion guide for turning an existing regular
// clone into the bare-repo-plus-worktrees layout owt manages, or reports
// that the current directory already qualifies. Grounded on
// original_source/src/main.rs's run_init.
func initCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:   "init",
		Usage:  "show how to convert the current repository to a bare-repo layout",
		Action: runInit,
	}
}

func runInit(c *urfavecli.Context) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("owt init: %w", err)
	}

	ctx := context.Background()
	driver := gitcli.NewService()

	if isBare, err := driver.IsBareRepo(ctx, cwd); err == nil && isBare {
		fmt.Println("Already a bare repository. Run 'owt' to start.")
		return nil
	}

	if !driver.IsGitRepo(ctx, cwd) {
		return fmt.Errorf("owt init: %q is not a git repository", cwd)
	}

	common, err := driver.RevParseGitCommonDir(ctx, cwd)
	if err == nil {
		if !filepath.IsAbs(common) {
			common = filepath.Join(cwd, common)
		}
		if isBare, err := driver.IsBareRepo(ctx, common); err == nil && isBare {
			fmt.Println("This is a worktree of a bare repository.")
			fmt.Printf("Bare repo: %s\n\n", common)
			fmt.Println("Run 'owt' to manage worktrees.")
			return nil
		}
	}

	repoName := filepath.Base(cwd)
	fmt.Println("This is a regular git repository.")
	fmt.Println("\nTo convert to a bare repository + worktree layout:")
	fmt.Println("\n  # 1. go to the parent directory")
	fmt.Println("  cd ..")
	fmt.Println("\n  # 2. move .git into a bare repo")
	fmt.Printf("  mkdir %s.owt-tmp && mv %s/.git %s.owt-tmp/.bare\n", repoName, repoName, repoName)
	fmt.Printf("  rm -rf %s && mv %s.owt-tmp %s\n", repoName, repoName, repoName)
	fmt.Println("\n  # 3. configure it as bare")
	fmt.Printf("  git -C %s/.bare config core.bare true\n", repoName)
	fmt.Println("\n  # 4. create the first worktree")
	fmt.Printf("  git -C %s/.bare worktree add ../main main\n", repoName)
	fmt.Println("\n  # 5. run owt")
	fmt.Printf("  cd %s && owt\n", repoName)
	return nil
}
