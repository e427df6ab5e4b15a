package postadd

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/repo/.bare", ".owt", "post-add.sh"), ScriptPath("/repo/.bare"))
}

func TestExistsFalseWhenMissing(t *testing.T) {
	assert.False(t, Exists(t.TempDir()))
}

func TestExistsFalseWhenNotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit not meaningful on windows")
	}
	bareDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(bareDir, ".owt"), 0o750))
	require.NoError(t, os.WriteFile(ScriptPath(bareDir), []byte("#!/bin/sh\n"), 0o644))
	assert.False(t, Exists(bareDir))
}

func TestExistsTrueWhenExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit not meaningful on windows")
	}
	bareDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(bareDir, ".owt"), 0o750))
	require.NoError(t, os.WriteFile(ScriptPath(bareDir), []byte("#!/bin/sh\nexit 0\n"), 0o755))
	assert.True(t, Exists(bareDir))
}

func TestRunReportsEnvironmentAndSuccess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script hook assumed unix-like")
	}
	bareDir := t.TempDir()
	worktreeDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(bareDir, ".owt"), 0o750))
	script := ScriptPath(bareDir)
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"$OWT_BRANCH:$OWT_WORKTREE_PATH\"\n"), 0o755))

	result := Run(context.Background(), bareDir, worktreeDir, "feature-a")
	assert.True(t, result.Ran)
	assert.True(t, result.Success)
	assert.Contains(t, result.Output, "feature-a:"+worktreeDir)
	assert.Equal(t, worktreeDir, result.WorktreePath)
}

func TestRunReportsFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script hook assumed unix-like")
	}
	bareDir := t.TempDir()
	worktreeDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(bareDir, ".owt"), 0o750))
	require.NoError(t, os.WriteFile(ScriptPath(bareDir), []byte("#!/bin/sh\nexit 1\n"), 0o755))

	result := Run(context.Background(), bareDir, worktreeDir, "feature-a")
	assert.True(t, result.Ran)
	assert.False(t, result.Success)
	assert.Error(t, result.Err)
}

func TestCopyConfiguredFilesSkipsMissing(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	copied, err := CopyConfiguredFiles(src, dst, []string{".env", ".env.local"})
	require.NoError(t, err)
	assert.Empty(t, copied)
}

func TestCopyConfiguredFilesCopiesExisting(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, ".env"), []byte("SECRET=1\n"), 0o600))

	copied, err := CopyConfiguredFiles(src, dst, []string{".env", ".env.local"})
	require.NoError(t, err)
	assert.Equal(t, []string{".env"}, copied)

	got, err := os.ReadFile(filepath.Join(dst, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "SECRET=1\n", string(got))
}

func TestCopyConfiguredFilesSkipsDirectories(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "config"), 0o750))

	copied, err := CopyConfiguredFiles(src, dst, []string{"config"})
	require.NoError(t, err)
	assert.Empty(t, copied)
}

func TestCopyConfiguredFilesCreatesNestedDestDirs(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "file.txt"), []byte("hi"), 0o600))

	copied, err := CopyConfiguredFiles(src, dst, []string{filepath.Join("nested", "file.txt")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("nested", "file.txt")}, copied)

	got, err := os.ReadFile(filepath.Join(dst, "nested", "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(got))
}
