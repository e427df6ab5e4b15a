package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// View renders the current frame. The footer spinner tracks whichever
// worktree the operation is running against, not the cursor: the table's
// trailing column carries its own spinner+verb cell for that row, so the
// two stay in sync even if the cursor has moved elsewhere.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.styles.Header.Render(fmt.Sprintf(" owt — %s ", m.bareRepoDir))

	body := m.table.View()
	if m.screens.IsActive() {
		body = lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, m.screens.Current().View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

// renderFooter shows the most recent message first; only once that message
// clears does the active-op spinner take over, and only once neither is set
// do the static keybinding hints show. A message always wins over the
// spinner so a Guard rejection ("Another operation is in progress") on a
// different worktree than the one running actually surfaces, instead of
// being hidden behind the in-flight op's own spinner text.
func (m *Model) renderFooter() string {
	if m.filterOn {
		return m.styles.Footer.Render("filter: " + m.filterInput.View())
	}

	if m.footerMsg != "" {
		style := m.styles.Footer
		if m.footerIsErr {
			style = m.styles.FooterErr
		}
		line := style.Render(m.footerMsg)
		if m.verbose && m.footerDetail != "" {
			detail := m.footerDetail
			if m.width > 0 {
				detail = wordwrap.String(detail, m.width)
			}
			line = lipgloss.JoinVertical(lipgloss.Left, line, m.styles.Dimmed.Render(detail))
		}
		return line
	}

	if m.active != nil {
		style := m.styles.SpinnerAmb
		if m.active.Kind.Verb() == "Deleting" {
			style = m.styles.SpinnerRed
		}
		return style.Render(fmt.Sprintf("%s %s %s...", m.spin.View(), m.active.Kind.Verb(), m.active.DisplayName))
	}

	hints := "j/k move · / filter · f fetch · p pull · P push · a add · d delete · m merge · M merge-select · r refresh · v verbose · ? help · q quit"
	if m.width > 0 {
		hints = wordwrap.String(hints, m.width)
	}
	return m.styles.Dimmed.Render(hints)
}
