package tui

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/owt/internal/config"
)

// requireGit skips the test if git is not on PATH, same guard as
// internal/gitcli's own integration tests.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func newFixtureRepo(t *testing.T) (bareDir, worktreeDir string) {
	t.Helper()
	requireGit(t)

	root := t.TempDir()
	bareDir = filepath.Join(root, ".bare")
	worktreeDir = filepath.Join(root, "main")
	seedDir := filepath.Join(root, "seed")

	run := func(dir string, args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoErrorf(t, err, "git %v: %s", args, out)
	}

	run(root, "init", "--bare", "-b", "main", bareDir)
	run(root, "clone", bareDir, seedDir)
	run(seedDir, "config", "user.email", "test@example.com")
	run(seedDir, "config", "user.name", "Test User")
	run(seedDir, "config", "commit.gpgsign", "false")
	require.NoError(t, exec.Command("git", "-C", seedDir, "commit", "--allow-empty", "-m", "initial").Run())
	run(seedDir, "push", "origin", "main")
	// Check main out as a linked worktree of the bare repo, so the listing
	// shows it next to the bare entry.
	run(bareDir, "worktree", "add", worktreeDir, "main")

	return bareDir, worktreeDir
}

// TestModelQuitWithoutSelection mirrors the teacher's TestKeyboardNavigation:
// press quit, wait for the program to finish, and check the final model
// carries no selection.
func TestModelQuitWithoutSelection(t *testing.T) {
	bareDir, worktreeDir := newFixtureRepo(t)
	m := New(context.Background(), bareDir, worktreeDir, config.Default())
	defer m.Close()

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))
	time.Sleep(150 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	fm := tm.FinalModel(t)
	final, ok := fm.(*Model)
	require.True(t, ok, "final model should be *tui.Model")
	require.Empty(t, final.SelectedPath())
}

// TestModelEnterSelectsCurrentRow mirrors the round-trip Enter performs:
// choosing a worktree and exiting with its path recorded.
func TestModelEnterSelectsCurrentRow(t *testing.T) {
	bareDir, worktreeDir := newFixtureRepo(t)
	m := New(context.Background(), bareDir, worktreeDir, config.Default())
	defer m.Close()

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))
	time.Sleep(150 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	fm := tm.FinalModel(t)
	final, ok := fm.(*Model)
	require.True(t, ok)
	require.Equal(t, worktreeDir, final.SelectedPath())
}

// TestModelHelpScreenOpensAndCloses exercises the modal screen stack: '?'
// pushes the help screen, any key pops it, and the row table is still
// interactive afterward.
func TestModelHelpScreenOpensAndCloses(t *testing.T) {
	bareDir, worktreeDir := newFixtureRepo(t)
	m := New(context.Background(), bareDir, worktreeDir, config.Default())
	defer m.Close()

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))
	time.Sleep(150 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})

	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool { return bytes.Contains(bts, []byte("Navigation")) },
		teatest.WithCheckInterval(50*time.Millisecond),
		teatest.WithDuration(2*time.Second),
	)

	// Any key closes the static help screen.
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	time.Sleep(100 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}

// TestModelEnterNoopWhenFilterExcludesAll: with the filter narrowed to no
// rows, Enter must not quit the program.
func TestModelEnterNoopWhenFilterExcludesAll(t *testing.T) {
	bareDir, worktreeDir := newFixtureRepo(t)
	m := New(context.Background(), bareDir, worktreeDir, config.Default())
	defer m.Close()

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))
	time.Sleep(150 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	for _, r := range "nonexistent" {
		tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	time.Sleep(50 * time.Millisecond)

	// Leave filter-edit mode without clearing the filter text itself, so
	// the table still has zero visible rows when Enter is pressed below.
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	time.Sleep(50 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	time.Sleep(100 * time.Millisecond)

	// Enter alone must not have quit; ctrl+c is still needed to end the run.
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	fm := tm.FinalModel(t)
	final, ok := fm.(*Model)
	require.True(t, ok)
	require.Empty(t, final.SelectedPath())
}

// TestModelFilterNarrowsRows exercises '/' entering filter mode and typing
// a query that should exclude every worktree present.
func TestModelFilterNarrowsRows(t *testing.T) {
	bareDir, worktreeDir := newFixtureRepo(t)
	m := New(context.Background(), bareDir, worktreeDir, config.Default())
	defer m.Close()

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 40))
	time.Sleep(150 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	for _, r := range "nonexistent" {
		tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	time.Sleep(100 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	time.Sleep(50 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}
