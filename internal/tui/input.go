package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/owt/internal/config"
	"github.com/chmouel/owt/internal/tui/screen"
	"github.com/chmouel/owt/internal/worktree"
)

// keys mirrors spec.md §4.G: navigation keys are always accepted regardless
// of whether a background operation is running (the central non-blocking
// property); only operation-triggering keys are subject to the
// dispatcher's single-flight guard.
var keys = struct {
	Up, Down, Enter, Filter, FilterExit key.Binding
	SortName, SortRecent, SortStatus    key.Binding
	Fetch, Pull, Push, Add, Delete      key.Binding
	Merge, MergeSelect, Refresh         key.Binding
	Help, Config, Verbose, Quit         key.Binding
}{
	Up:          key.NewBinding(key.WithKeys("up", "k")),
	Down:        key.NewBinding(key.WithKeys("down", "j")),
	Enter:       key.NewBinding(key.WithKeys("enter")),
	Filter:      key.NewBinding(key.WithKeys("/")),
	FilterExit:  key.NewBinding(key.WithKeys("esc")),
	SortName:    key.NewBinding(key.WithKeys("1")),
	SortRecent:  key.NewBinding(key.WithKeys("2")),
	SortStatus:  key.NewBinding(key.WithKeys("3")),
	Fetch:       key.NewBinding(key.WithKeys("f")),
	Pull:        key.NewBinding(key.WithKeys("p")),
	Push:        key.NewBinding(key.WithKeys("P")),
	Add:         key.NewBinding(key.WithKeys("a")),
	Delete:      key.NewBinding(key.WithKeys("d")),
	Merge:       key.NewBinding(key.WithKeys("m")),
	MergeSelect: key.NewBinding(key.WithKeys("M")),
	Refresh:     key.NewBinding(key.WithKeys("r")),
	Help:        key.NewBinding(key.WithKeys("?")),
	Config:      key.NewBinding(key.WithKeys("c")),
	Verbose:     key.NewBinding(key.WithKeys("v")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

// routeKey handles a key press when no modal screen is active. Filter mode
// intercepts everything except esc/enter, since it's a text field, not a
// command surface.
func (m *Model) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filterOn {
		return m.routeFilterKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	case key.Matches(msg, keys.Enter):
		wt := m.selectedWorktree()
		if wt == nil {
			return m, nil
		}
		m.selectedPath = wt.Path
		return m, tea.Quit
	case key.Matches(msg, keys.Filter):
		m.filterOn = true
		m.filterInput.SetValue(m.store.Filter())
		m.filterInput.Focus()
		return m, nil
	case key.Matches(msg, keys.SortName):
		m.store.SetSortMode(worktree.SortName)
		m.syncTableRows()
		return m, nil
	case key.Matches(msg, keys.SortRecent):
		m.store.SetSortMode(worktree.SortRecent)
		m.syncTableRows()
		return m, nil
	case key.Matches(msg, keys.SortStatus):
		m.store.SetSortMode(worktree.SortStatus)
		m.syncTableRows()
		return m, nil
	case key.Matches(msg, keys.Fetch):
		return m, m.dispatch(worktree.OpFetch, m.selectedWorktree(), "")
	case key.Matches(msg, keys.Pull):
		return m, m.dispatch(worktree.OpPull, m.selectedWorktree(), "")
	case key.Matches(msg, keys.Push):
		return m, m.dispatch(worktree.OpPush, m.selectedWorktree(), "")
	case key.Matches(msg, keys.Delete):
		return m, m.openConfirmDelete()
	case key.Matches(msg, keys.Add):
		return m, m.openAddModal()
	case key.Matches(msg, keys.Merge):
		return m, m.mergeUpstream()
	case key.Matches(msg, keys.MergeSelect):
		return m, m.openMergeSelect()
	case key.Matches(msg, keys.Refresh):
		return m, m.refreshPreservingSelectionCmd()
	case key.Matches(msg, keys.Verbose):
		m.verbose = !m.verbose
		return m, nil
	case key.Matches(msg, keys.Help):
		m.screens.Push(screen.NewHelpScreen(m.palette))
		return m, nil
	case key.Matches(msg, keys.Config):
		s := screen.NewConfigScreen(m.cfg, m.palette)
		s.OnSave = func(cfg config.Config) tea.Cmd {
			m.cfg = cfg
			return m.footerCmd("config saved", false, footerDuration)
		}
		m.screens.Push(s)
		return m, nil
	}
	return m, nil
}

func (m *Model) routeFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterOn = false
		m.filterInput.Blur()
		m.store.SetFilter("")
		m.syncTableRows()
		return m, nil
	case "enter":
		m.filterOn = false
		m.filterInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.store.SetFilter(m.filterInput.Value())
	m.syncTableRows()
	return m, cmd
}

// openConfirmDelete pushes the ConfirmDelete screen for the selected
// worktree; Guard/Validate for the actual removal still runs inside
// dispatch once the user confirms, so an invalid target is rejected there
// too, not just here. A worktree with an operation already in flight is
// rejected here rather than left to dispatch's Guard, so the confirm modal
// never opens for it in the first place.
func (m *Model) openConfirmDelete() tea.Cmd {
	wt := m.selectedWorktree()
	if wt == nil {
		return m.footerCmd(errNoSelection.Error(), true, footerDuration)
	}
	if m.active != nil && m.active.WorktreePath == wt.Path {
		return m.footerCmd(errWorktreeBusy.Error(), true, footerDuration)
	}
	s := screen.NewConfirmDeleteScreen(wt.Path, wt.DisplayName(), m.palette)
	s.OnConfirm = func(alsoDeleteBranch bool) tea.Cmd {
		m.screens.Pop()
		extra := ""
		if alsoDeleteBranch {
			extra = "branch"
		}
		return m.dispatch(worktree.OpDelete, wt, extra)
	}
	s.OnCancel = func() tea.Cmd {
		m.screens.Pop()
		return nil
	}
	m.screens.Push(s)
	return nil
}

func (m *Model) openAddModal() tea.Cmd {
	s := screen.NewAddTypeSelectScreen(m.cfg.BranchTypes, 50, 12)
	s.OnSelect = func(bt config.BranchType) tea.Cmd {
		m.screens.Pop()
		input := screen.NewAddBranchInputScreen(bt.Prefix, bt.Base, m.palette)
		input.OnSubmit = func(branch, base string) tea.Cmd {
			m.screens.Pop()
			m.pendingAddBase = base
			wt := &worktree.Worktree{Path: m.generatedWorktreePath(branch), Branch: branch}
			return m.dispatch(worktree.OpAdd, wt, branch)
		}
		input.OnCancel = func() tea.Cmd {
			m.screens.Pop()
			return nil
		}
		m.screens.Push(input)
		return nil
	}
	s.OnCancel = func() tea.Cmd {
		m.screens.Pop()
		return nil
	}
	m.screens.Push(s)
	return nil
}

// mergeUpstream dispatches OpMerge directly against the selected worktree's
// upstream branch — the "m" shortcut, as opposed to "M" which opens
// MergeBranchSelect to pick a different source branch.
func (m *Model) mergeUpstream() tea.Cmd {
	wt := m.selectedWorktree()
	if wt == nil {
		return m.footerCmd(errNoSelection.Error(), true, footerDuration)
	}
	return m.dispatch(worktree.OpMerge, wt, wt.UpstreamBranch)
}

func (m *Model) openMergeSelect() tea.Cmd {
	wt := m.selectedWorktree()
	if wt == nil {
		return m.footerCmd(errNoSelection.Error(), true, footerDuration)
	}
	return func() tea.Msg {
		branches, err := m.driver.ListLocalBranches(m.ctx, m.bareRepoDir)
		if err != nil {
			return opResultMsg{result: worktree.OpResult{Kind: worktree.OpMerge, Success: false, Message: err.Error()}}
		}
		return mergeBranchesLoadedMsg{target: wt, branches: branches}
	}
}
