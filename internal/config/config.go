// Package config loads owt's TOML configuration: editor/terminal choice,
// files to copy into a new worktree, and named branch-creation presets.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// BranchType is one entry in the AddModal's type-select list: a named
// preset that fills in a branch prefix, base ref, and one-key shortcut.
type BranchType struct {
	Name     string `toml:"name"`
	Prefix   string `toml:"prefix"`
	Base     string `toml:"base"`
	Shortcut string `toml:"shortcut"`
}

// Config is owt's recognized configuration surface (§6).
type Config struct {
	Editor      string       `toml:"editor"`
	Terminal    string       `toml:"terminal"`
	CopyFiles   []string     `toml:"copy_files"`
	BranchTypes []BranchType `toml:"branch_types"`

	// Path is the file Load read this configuration from, or the default
	// location a fresh one would be written to if neither project nor
	// global file existed yet. Not part of the TOML surface itself.
	Path string `toml:"-"`
}

// Default returns the configuration used when no config file is found.
func Default() Config {
	return Config{
		Editor:   "vi",
		Terminal: "",
		BranchTypes: []BranchType{
			{Name: "Feature", Prefix: "feature/", Shortcut: "f"},
			{Name: "Fix", Prefix: "fix/", Shortcut: "x"},
			{Name: "Chore", Prefix: "chore/", Shortcut: "c"},
		},
	}
}

// Load resolves configuration per §6's discovery order: `.owt/config.toml`
// next to the bare repository first, then `~/.config/owt/config.toml`. The
// first file found wins outright — owt does not merge across the two, so a
// project's config fully replaces the user's global defaults rather than
// layering over them. EDITOR and TERMINAL environment variables always take
// priority over either file.
func Load(bareRepoDir string) (Config, error) {
	cfg := Default()

	var projectPath, globalPath string

	if bareRepoDir != "" {
		projectPath = filepath.Join(bareRepoDir, ".owt", "config.toml")
		ok, err := loadIfExists(projectPath, &cfg)
		if err != nil {
			return cfg, err
		}
		if ok {
			cfg.Path = projectPath
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		globalPath = filepath.Join(configDir(home), "owt", "config.toml")
		ok, err := loadIfExists(globalPath, &cfg)
		if err != nil {
			return cfg, err
		}
		if ok {
			cfg.Path = globalPath
		}
	}

	// Neither file exists yet: point a future Save at the project config
	// when a bare repository is known, otherwise the global one.
	if cfg.Path == "" {
		if projectPath != "" {
			cfg.Path = projectPath
		} else {
			cfg.Path = globalPath
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes cfg back to cfg.Path, the file it was loaded from (or the
// default location Load picked when neither project nor global config
// existed), creating parent directories as needed.
func Save(cfg Config) error {
	if cfg.Path == "" {
		return errors.New("no config path to save to")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec
	if err != nil {
		return err
	}
	defer f.Close()

	// Encoded via an unexported mirror so Path (not part of the TOML
	// surface) never round-trips into the file.
	out := struct {
		Editor      string       `toml:"editor"`
		Terminal    string       `toml:"terminal"`
		CopyFiles   []string     `toml:"copy_files"`
		BranchTypes []BranchType `toml:"branch_types"`
	}{cfg.Editor, cfg.Terminal, cfg.CopyFiles, cfg.BranchTypes}

	return toml.NewEncoder(f).Encode(out)
}

// loadIfExists decodes path into cfg if it exists, reporting whether it did.
func loadIfExists(path string, cfg *Config) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, err
	}
	return true, nil
}

// configDir returns $XDG_CONFIG_HOME, falling back to ~/.config.
func configDir(home string) string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(home, ".config")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EDITOR"); v != "" {
		cfg.Editor = v
	}
	if v := os.Getenv("TERMINAL"); v != "" {
		cfg.Terminal = v
	}
}
