package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/owt/internal/tui/screen"
	"github.com/chmouel/owt/internal/worktree"
)

// Update is bubbletea's dispatch point — the single consumer every input
// key, timer tick, and background-operation result flows through. It is
// the concrete realization of spec.md §4.E's completion poller: there is
// no separate polling loop, because bubbletea already delivers a
// completed tea.Cmd's tea.Msg here the moment it's ready.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetHeight(msg.Height - 6)
		return m, nil

	case tea.KeyMsg:
		if m.screens.IsActive() {
			current := m.screens.Current()
			next, cmd := current.Update(msg)
			// A nil screen means "close me", unless a callback already
			// replaced the current screen itself (Add's type list pushing
			// the branch-name input, for one).
			switch {
			case next == nil && m.screens.Current() == current:
				m.screens.Pop()
			case next != nil:
				m.screens.Set(next)
			}
			return m, cmd
		}
		return m.routeKey(msg)

	case opResultMsg:
		return m, m.handleOpResult(msg.result)

	case refreshDoneMsg:
		m.syncTableRows()
		if m.pendingSelectPath != "" {
			m.selectPath(m.pendingSelectPath)
			m.pendingSelectPath = ""
		}
		if msg.err != nil {
			return m, m.footerCmd("refresh failed: "+msg.err.Error(), true, footerDuration)
		}
		return m, nil

	case postAddDoneMsg:
		if !msg.result.Success {
			return m, m.footerCmd("post-add hook failed: "+msg.result.Err.Error(), true, footerDuration)
		}
		return m, m.footerCmd("post-add hook completed", false, footerDuration)

	case mergeBranchesLoadedMsg:
		s := screen.NewMergeBranchSelectScreen(msg.branches, 50, 14)
		target := msg.target
		s.OnSelect = func(branch string) tea.Cmd {
			m.screens.Pop()
			return m.dispatch(worktree.OpMerge, target, branch)
		}
		s.OnCancel = func() tea.Cmd {
			m.screens.Pop()
			return nil
		}
		m.screens.Push(s)
		return m, nil

	case watchTriggeredMsg:
		return m, tea.Batch(m.refreshPreservingSelectionCmd(), m.waitForWatchCmd())

	case footerClearMsg:
		if msg.generation == m.footerGen {
			m.footerMsg = ""
			m.footerDetail = ""
			m.footerIsErr = false
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.active != nil {
			m.syncTableRows()
		}
		return m, cmd
	}

	return m, nil
}
