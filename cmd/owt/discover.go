package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chmouel/owt/internal/gitcli"
)

// discoverBareRepo implements spec.md §6's repository-detection order:
// a `.bare` directory in path wins outright; otherwise the git-common-dir
// of path is used if it names a bare repository; otherwise detection
// fails with a human-readable error naming what's missing. Grounded on
// original_source/src/main.rs's run_tui / git.rs's find_bare_in_parent.
func discoverBareRepo(ctx context.Context, driver *gitcli.Service, path string) (string, error) {
	bareCandidate := filepath.Join(path, ".bare")
	if info, err := os.Stat(bareCandidate); err == nil && info.IsDir() {
		if isBare, err := driver.IsBareRepo(ctx, bareCandidate); err == nil && isBare {
			return filepath.Abs(bareCandidate)
		}
	}

	if !driver.IsGitRepo(ctx, path) {
		return "", fmt.Errorf("owt: %q is not a git repository (no .bare directory and git rev-parse --git-dir failed)", path)
	}

	common, err := driver.RevParseGitCommonDir(ctx, path)
	if err != nil {
		return "", fmt.Errorf("owt: could not resolve git common directory for %q: %w", path, err)
	}
	if !filepath.IsAbs(common) {
		common = filepath.Join(path, common)
	}
	common, err = filepath.Abs(common)
	if err != nil {
		return "", fmt.Errorf("owt: %w", err)
	}

	isBare, err := driver.IsBareRepo(ctx, common)
	if err != nil {
		return "", fmt.Errorf("owt: %w", err)
	}
	if !isBare {
		return "", fmt.Errorf("owt: %q is a git repository but not a bare one; run 'owt init' for conversion instructions", path)
	}
	return common, nil
}
