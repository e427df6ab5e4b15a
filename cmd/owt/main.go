// Package main is the entry point for owt, a TUI for managing git
// worktrees rooted in a bare repository.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	urfavecli "github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/chmouel/owt/internal/buildinfo"
	"github.com/chmouel/owt/internal/config"
	"github.com/chmouel/owt/internal/gitcli"
	"github.com/chmouel/owt/internal/log"
	"github.com/chmouel/owt/internal/shellintegration"
	"github.com/chmouel/owt/internal/tui"
)

// version, commit, and date are overwritten by -ldflags at release build
// time and forwarded into buildinfo for --version and any future use.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date)
	buildinfo.Enrich()

	cliApp := &urfavecli.App{
		Name:                 "owt",
		Usage:                "manage git worktrees rooted in a bare repository",
		Version:              buildinfo.Version(),
		EnableBashCompletion: true,

		Flags: globalFlags(),

		Commands: []*urfavecli.Command{
			cloneCommand(),
			initCommand(),
			setupCommand(),
			testCDCommand(),
		},

		Action: runTUI,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags mirrors the teacher's cmd/lazyworktree/flags.go shape: a
// short, flat set of top-level flags for the default TUI action.
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "path",
			Aliases: []string{"p"},
			Usage:   "path to search for the bare repository (default: current directory)",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "path to debug log file",
		},
	}
}

// runTUI is the default action: detect the bare repository, load
// configuration, and run the dashboard.
func runTUI(c *urfavecli.Context) error {
	if debugLog := c.String("debug-log"); debugLog != "" {
		if err := log.SetFile(debugLog); err != nil {
			fmt.Fprintf(os.Stderr, "error opening debug log file %q: %v\n", debugLog, err)
		}
	} else {
		_ = log.SetFile("")
	}
	defer func() { _ = log.Close() }()

	startPath := c.String("path")
	if startPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("owt: %w", err)
		}
		startPath = cwd
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("owt: not running in an interactive terminal")
	}

	ctx := context.Background()
	driver := gitcli.NewService()

	bareRepoDir, err := discoverBareRepo(ctx, driver, startPath)
	if err != nil {
		return err
	}

	cfg, err := config.Load(bareRepoDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "owt: error loading config: %v\n", err)
		cfg = config.Default()
	}

	currentPath := currentWorktreePath(ctx, driver, bareRepoDir, startPath)

	model := tui.New(ctx, bareRepoDir, currentPath, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		model.Close()
		return fmt.Errorf("owt: %w", err)
	}
	model.Close()

	return shellintegration.EmitSelection(model.SelectedPath())
}

// currentWorktreePath resolves the checkout startPath belongs to, if any,
// so the dashboard can mark it "current" and refuse to delete it. A
// failure here is not fatal — it just means no row is pre-marked current.
func currentWorktreePath(ctx context.Context, driver *gitcli.Service, bareRepoDir, startPath string) string {
	if isBare, err := driver.IsBareRepo(ctx, startPath); err == nil && isBare {
		return ""
	}
	common, err := driver.RevParseGitCommonDir(ctx, startPath)
	if err != nil {
		return ""
	}
	if !filepath.IsAbs(common) {
		common = filepath.Join(startPath, common)
	}
	if abs, err := filepath.Abs(common); err == nil {
		common = abs
	}
	bareAbs, err := filepath.Abs(bareRepoDir)
	if err != nil || common != bareAbs {
		return ""
	}
	abs, err := filepath.Abs(startPath)
	if err != nil {
		return startPath
	}
	return abs
}
