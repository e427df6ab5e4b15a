// Package tui implements owt's dashboard: a bubbletea Model whose Update
// loop is the event loop, operation dispatcher, and view-state machine
// spec.md §4 describes. bubbletea's own runtime supplies the single-
// consumer message loop and the background-worker/completion-channel pair
// (a tea.Cmd goroutine reporting back via a tea.Msg); this package supplies
// the domain rules layered on top: single-flight enforcement, per-kind
// completion side effects, and the non-blocking input-routing guarantee.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/owt/internal/config"
	"github.com/chmouel/owt/internal/gitcli"
	owtlog "github.com/chmouel/owt/internal/log"
	"github.com/chmouel/owt/internal/postadd"
	"github.com/chmouel/owt/internal/theme"
	"github.com/chmouel/owt/internal/tui/screen"
	"github.com/chmouel/owt/internal/watch"
	"github.com/chmouel/owt/internal/worktree"
)

// Model is owt's top-level bubbletea model.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	bareRepoDir string
	currentPath string
	cfg         config.Config
	driver      *gitcli.Service
	store       *worktree.Store
	watcher     *watch.Watcher

	palette *theme.Palette
	styles  *theme.Styles

	table       table.Model
	filterInput textinput.Model
	filterOn    bool
	spin        spinner.Model

	screens *screen.Manager

	active *worktree.ActiveOp

	footerMsg      string
	footerDetail   string // cmd_detail, rendered as a second footer line when verbose is on
	footerIsErr    bool
	footerGen      int
	verbose        bool
	mergeSourceFor string // worktree path a MergeBranchSelect was opened for

	pendingAddBase    string // base ref carried from AddBranchInput to the Add dispatch
	pendingSelectPath string // path to focus once the post-Add refresh lands

	width, height int
	selectedPath  string
	quitting      bool
}

// footerDuration is how long a transient footer message stays visible
// before footerClearMsg removes it.
const footerDuration = 4 * time.Second

// New builds the model for a bare repository already located at
// bareRepoDir. currentPath, if non-empty, marks the worktree the process
// was launched from. Debug logging goes through internal/log's
// package-level logger, set up by the caller via log.SetFile before New is
// invoked.
func New(ctx context.Context, bareRepoDir, currentPath string, cfg config.Config) *Model {
	ctx, cancel := context.WithCancel(ctx)

	palette := theme.Dracula()
	styles := theme.NewStyles(palette)

	columns := []table.Column{
		{Title: "Worktree", Width: 24},
		{Title: "Branch", Width: 20},
		{Title: "Status", Width: 10},
		{Title: "±", Width: 8},
		{Title: "Op", Width: 12},
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(20))
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Foreground(palette.MutedFg).Bold(true)
	ts.Cell = ts.Cell.Foreground(palette.TextFg)
	ts.Selected = ts.Selected.Foreground(palette.AccentFg).Background(palette.Accent).Bold(true)
	t.SetStyles(ts)

	filterInput := textinput.New()
	filterInput.Placeholder = "filter by name or branch..."
	filterInput.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:         ctx,
		cancel:      cancel,
		bareRepoDir: bareRepoDir,
		currentPath: currentPath,
		cfg:         cfg,
		driver:      gitcli.NewService(),
		store:       worktree.NewStore(),
		palette:     palette,
		styles:      styles,
		table:       t,
		filterInput: filterInput,
		spin:        sp,
		screens:     screen.NewManager(),
	}

	if w, err := watch.New(bareRepoDir, m.logf); err == nil {
		m.watcher = w
	} else {
		m.logf("watch: disabled: %v", err)
	}

	return m
}

func (m *Model) logf(format string, args ...any) {
	owtlog.Printf(format, args...)
}

// Init starts the initial refresh and, if the watcher started, begins
// listening for external changes.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refreshCmd(), m.spin.Tick}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForWatchCmd())
	}
	return tea.Batch(cmds...)
}

// SelectedPath returns the worktree path chosen with Enter, or empty if the
// user quit without choosing one.
func (m *Model) SelectedPath() string {
	return m.selectedPath
}

// Close releases the watcher and cancels any in-flight background work.
func (m *Model) Close() {
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.cancel()
}

// refreshCmd rebuilds the store from the git driver.
func (m *Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.store.Refresh(m.ctx, m.driver, m.bareRepoDir, m.currentPath)
		return refreshDoneMsg{err: err}
	}
}

// waitForWatchCmd blocks on the watcher's channel and turns the next
// signal into a tea.Msg; Update re-issues this after each delivery so the
// watch loop keeps running for the lifetime of the program.
func (m *Model) waitForWatchCmd() tea.Cmd {
	return func() tea.Msg {
		_, ok := <-m.watcher.Events()
		if !ok {
			return nil
		}
		return watchTriggeredMsg{}
	}
}

// postAddCmd runs the post-add hook (if present) for a newly created
// worktree, off owt's single-flight slot.
func (m *Model) postAddCmd(worktreePath, branch string) tea.Cmd {
	if !postadd.Exists(m.bareRepoDir) {
		return nil
	}
	return func() tea.Msg {
		return postAddDoneMsg{result: postadd.Run(m.ctx, m.bareRepoDir, worktreePath, branch)}
	}
}

// footerCmd shows a transient footer message that clears itself after d.
func (m *Model) footerCmd(msg string, isErr bool, d time.Duration) tea.Cmd {
	return m.footerCmdDetailed(msg, "", isErr, d)
}

// footerCmdDetailed is footerCmd plus cmd_detail, the git-command output
// renderFooter appends as a second line while verbose mode is on.
func (m *Model) footerCmdDetailed(msg, detail string, isErr bool, d time.Duration) tea.Cmd {
	m.footerMsg = msg
	m.footerDetail = detail
	m.footerIsErr = isErr
	m.footerGen++
	gen := m.footerGen
	return tea.Tick(d, func(time.Time) tea.Msg {
		return footerClearMsg{generation: gen}
	})
}

// selectedWorktree returns the row under the table cursor, or nil.
func (m *Model) selectedWorktree() *worktree.Worktree {
	rows := m.store.VisibleMatching()
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(rows) {
		return nil
	}
	return rows[idx]
}

// syncTableRows rebuilds the table's rows from the store, including the
// trailing operation-indicator column: a spinner frame plus the kind's verb
// on whichever row m.active names, blank everywhere else. Called on every
// store mutation and on each spinner.TickMsg while an operation is running,
// so the frame in that column actually animates.
func (m *Model) syncTableRows() {
	rows := m.store.VisibleMatching()
	out := make([]table.Row, 0, len(rows))
	for _, w := range rows {
		out = append(out, table.Row{
			w.DisplayName(),
			w.Branch,
			string(w.Status),
			fmt.Sprintf("+%d/-%d", w.Ahead, w.Behind),
			m.opIndicator(w.Path),
		})
	}
	m.table.SetRows(out)
}

// opIndicator returns the spinner+verb cell for the row at path, or an
// empty string if no operation is running against it.
func (m *Model) opIndicator(path string) string {
	if m.active == nil || m.active.WorktreePath != path {
		return ""
	}
	return m.spin.View() + " " + m.active.Kind.Verb()
}

// generatedWorktreePath places a new worktree as a sibling of the bare
// repository, named after its branch — grounded on
// original_source/src/app.rs's generated_worktree_path.
func (m *Model) generatedWorktreePath(branch string) string {
	parent := filepath.Dir(m.bareRepoDir)
	return filepath.Join(parent, branch)
}

// selectPath moves the table cursor onto the row with the given path, if
// present, used after Add to focus the newly created worktree.
func (m *Model) selectPath(path string) {
	rows := m.store.VisibleMatching()
	for i, w := range rows {
		if w.Path == path {
			m.table.SetCursor(i)
			return
		}
	}
}
