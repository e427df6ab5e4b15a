package tui

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/owt/internal/postadd"
	"github.com/chmouel/owt/internal/worktree"
)

// dispatch implements spec.md §4.D's five-step protocol: Guard rejects a
// second operation while one is in flight; Validate checks the kind's
// preconditions against the target worktree; Snapshot records the
// worktree.ActiveOp before any I/O starts, so the renderer can show the
// spinner on the very next frame; Spawn returns the tea.Cmd that performs
// the actual git call on a bubbletea-owned goroutine; Feedback is implicit
// — the row spinner and the footer's active-operation line persist for as
// long as m.active is non-nil. A worker that panics is reported as a failed
// OpResult, so the slot is still released.
func (m *Model) dispatch(kind worktree.OpKind, wt *worktree.Worktree, extra string) tea.Cmd {
	if m.active != nil {
		return m.footerCmd("Another operation is in progress", true, footerDuration)
	}

	if err := m.validate(kind, wt, extra); err != nil {
		return m.footerCmd(err.Error(), true, footerDuration)
	}

	m.active = &worktree.ActiveOp{
		Kind:         kind,
		WorktreePath: wt.Path,
		DisplayName:  wt.DisplayName(),
	}
	m.syncTableRows()

	work := m.spawn(kind, wt, extra)
	path, name := wt.Path, wt.DisplayName()
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = opResultMsg{result: worktree.OpResult{
					Kind: kind, Success: false, Message: "Operation failed unexpectedly",
					CmdDetail: fmt.Sprint(r), WorktreePath: path, DisplayName: name,
				}}
			}
		}()
		return work()
	}
}

func (m *Model) validate(kind worktree.OpKind, wt *worktree.Worktree, extra string) error {
	switch kind {
	case worktree.OpFetch:
		if wt == nil {
			return errNoSelection
		}
		if wt.IsBare {
			return errBareWorktree
		}
	case worktree.OpPull:
		if wt == nil {
			return errNoSelection
		}
		if wt.IsBare {
			return errBareWorktree
		}
		if wt.Status != worktree.StatusClean {
			return errPullNotClean
		}
	case worktree.OpPush:
		if wt == nil {
			return errNoSelection
		}
		if wt.IsBare {
			return errBareWorktree
		}
	case worktree.OpDelete:
		if wt == nil {
			return errNoSelection
		}
		if wt.IsBare {
			return errBareWorktree
		}
		if wt.IsCurrent {
			return errDeleteCurrent
		}
		if wt.Status != worktree.StatusClean {
			return errDeleteDirty
		}
	case worktree.OpMerge:
		if wt == nil {
			return errNoSelection
		}
		if extra == "" {
			return errNoMergeSource
		}
		if wt.Status != worktree.StatusClean {
			return errMergeNotClean
		}
	case worktree.OpAdd:
		if extra == "" {
			return errNoBranchName
		}
		if wt != nil && !writableDir(filepath.Dir(wt.Path)) {
			return errAddDirNotWritable
		}
	}
	return nil
}

// writableDir reports whether dir can be written to, by actually attempting
// to create and remove a scratch file — the only portable way to answer
// this without racing a subsequent os.MkdirAll/git worktree add call that
// does the real write.
func writableDir(dir string) bool {
	f, err := os.CreateTemp(dir, ".owt-writable-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

func (m *Model) spawn(kind worktree.OpKind, wt *worktree.Worktree, extra string) tea.Cmd {
	displayName := wt.DisplayName()
	path := wt.Path

	switch kind {
	case worktree.OpFetch:
		return func() tea.Msg {
			detail, err := m.driver.Fetch(m.ctx, path)
			return m.result(kind, path, displayName, detail, err)
		}
	case worktree.OpPull:
		return func() tea.Msg {
			detail, err := m.driver.Pull(m.ctx, path)
			return m.result(kind, path, displayName, detail, err)
		}
	case worktree.OpPush:
		return func() tea.Msg {
			detail, err := m.driver.Push(m.ctx, path)
			return m.result(kind, path, displayName, detail, err)
		}
	case worktree.OpMerge:
		source := extra
		return func() tea.Msg {
			detail, err := m.driver.Merge(m.ctx, path, source)
			return m.result(kind, path, displayName, detail, err)
		}
	case worktree.OpDelete:
		alsoDeleteBranch := extra == "branch"
		branch := wt.Branch
		return func() tea.Msg {
			detail, err := m.driver.RemoveWorktree(m.ctx, m.bareRepoDir, path, branch, alsoDeleteBranch)
			return m.result(kind, path, displayName, detail, err)
		}
	case worktree.OpAdd:
		branch := extra
		newPath := m.generatedWorktreePath(branch)
		base := m.pendingAddBase
		sourceDir := m.currentPath
		copyFiles := m.cfg.CopyFiles
		return func() tea.Msg {
			detail, err := m.driver.AddWorktree(m.ctx, m.bareRepoDir, newPath, branch, base)
			if err == nil && sourceDir != "" && len(copyFiles) > 0 {
				if copied, copyErr := postadd.CopyConfiguredFiles(sourceDir, newPath, copyFiles); copyErr != nil {
					detail += "; " + copyErr.Error()
				} else if len(copied) > 0 {
					detail += fmt.Sprintf("; copied %d file(s)", len(copied))
				}
			}
			return m.result(worktree.OpAdd, newPath, branch, detail, err)
		}
	}
	return nil
}

func (m *Model) result(kind worktree.OpKind, path, displayName, detail string, err error) tea.Msg {
	res := worktree.OpResult{
		Kind:         kind,
		Success:      err == nil,
		CmdDetail:    detail,
		WorktreePath: path,
		DisplayName:  displayName,
	}
	if err != nil {
		res.Message = err.Error()
	} else {
		res.Message = fmt.Sprintf("%s succeeded: %s", kind.Verb(), detail)
	}
	return opResultMsg{result: res}
}

// handleOpResult applies §4.D's per-kind completion side effects and
// clears the single-flight slot. Clearing m.active and re-syncing the table
// here, before the per-kind branch runs, drops the row's spinner immediately
// instead of waiting for whichever refresh follows.
func (m *Model) handleOpResult(res worktree.OpResult) tea.Cmd {
	m.active = nil
	m.syncTableRows()

	isErr := !res.Success
	footer := m.footerCmdDetailed(res.Message, res.CmdDetail, isErr, footerDuration)

	if !res.Success {
		// Every kind gets a full refresh on failure, even Delete: the git
		// process may have partially applied before failing, so the store
		// can no longer be trusted to match the last known-good state.
		return tea.Batch(footer, m.refreshPreservingSelectionCmd())
	}

	switch res.Kind {
	case worktree.OpDelete:
		m.store.RemoveByPath(res.WorktreePath)
		m.syncTableRows()
		return footer
	case worktree.OpAdd:
		return tea.Batch(footer, m.refreshSelectingCmd(res.WorktreePath), m.postAddCmd(res.WorktreePath, res.DisplayName))
	default: // Fetch, Pull, Push, Merge
		return tea.Batch(footer, m.refreshPreservingSelectionCmd())
	}
}

// refreshSelectingCmd remembers path and moves the cursor onto it once the
// refresh lands in Update — refresh() (§4.A) requires every refresh to
// preserve the caller's notion of "selected" by path, not just clamp to
// bounds.
func (m *Model) refreshSelectingCmd(path string) tea.Cmd {
	m.pendingSelectPath = path
	return m.refreshCmd()
}

// refreshPreservingSelectionCmd captures whatever is under the cursor right
// now and re-focuses it by path after the refresh completes, since a
// Fetch/Pull/Push/Merge-triggered refresh can resort the table (e.g. a new
// commit changes SortRecent's ordering) and silently move the cursor onto a
// different worktree otherwise.
func (m *Model) refreshPreservingSelectionCmd() tea.Cmd {
	path := ""
	if wt := m.selectedWorktree(); wt != nil {
		path = wt.Path
	}
	return m.refreshSelectingCmd(path)
}
