package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"

	"github.com/chmouel/owt/internal/theme"
	"github.com/chmouel/owt/internal/worktree"
)

func newRenderModel() *Model {
	palette := theme.Dracula()
	return &Model{
		palette: palette,
		styles:  theme.NewStyles(palette),
		spin:    spinner.New(),
	}
}

// TestRenderFooterMessagePriority pins the ordering a Guard rejection
// depends on: a footer message must win over an in-flight operation's
// spinner, or a rejection on a different worktree than the one running
// never reaches the screen.
func TestRenderFooterMessagePriority(t *testing.T) {
	m := newRenderModel()
	m.active = &worktree.ActiveOp{Kind: worktree.OpFetch, WorktreePath: "/repo/featA", DisplayName: "featA"}
	m.footerMsg = "Another operation is in progress"
	m.footerIsErr = true

	out := m.renderFooter()
	assert.Contains(t, out, "Another operation is in progress")
	assert.NotContains(t, out, "Fetching")
}

// TestRenderFooterFallsBackToActiveOp: once the message clears, the spinner
// text takes over.
func TestRenderFooterFallsBackToActiveOp(t *testing.T) {
	m := newRenderModel()
	m.active = &worktree.ActiveOp{Kind: worktree.OpFetch, WorktreePath: "/repo/featA", DisplayName: "featA"}

	out := m.renderFooter()
	assert.Contains(t, out, "featA")
}

// TestRenderFooterFallsBackToHints: with neither a message nor an active
// op, the static keybinding hints show.
func TestRenderFooterFallsBackToHints(t *testing.T) {
	m := newRenderModel()
	out := m.renderFooter()
	assert.Contains(t, out, "quit")
}

// TestRenderFooterVerboseAppendsDetail: cmd_detail only shows as a second
// line once verbose mode is toggled on.
func TestRenderFooterVerboseAppendsDetail(t *testing.T) {
	m := newRenderModel()
	m.footerMsg = "fetch succeeded: done"
	m.footerDetail = "git -C /repo/featA fetch origin"

	withoutVerbose := m.renderFooter()
	assert.NotContains(t, withoutVerbose, "git -C")

	m.verbose = true
	withVerbose := m.renderFooter()
	assert.Contains(t, withVerbose, "git -C")
}
