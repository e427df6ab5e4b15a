package screen

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type branchItem string

func (i branchItem) Title() string       { return string(i) }
func (i branchItem) Description() string { return "" }
func (i branchItem) FilterValue() string { return string(i) }

// MergeBranchSelectScreen lets the user pick a source branch to merge into
// the currently selected worktree.
type MergeBranchSelectScreen struct {
	list list.Model

	OnSelect func(branch string) tea.Cmd
	OnCancel func() tea.Cmd
}

func NewMergeBranchSelectScreen(branches []string, width, height int) *MergeBranchSelectScreen {
	items := make([]list.Item, len(branches))
	for i, b := range branches {
		items[i] = branchItem(b)
	}
	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Merge branch into current worktree"
	l.SetShowStatusBar(false)

	return &MergeBranchSelectScreen{list: l}
}

func (s *MergeBranchSelectScreen) Type() Type { return TypeMergeSelect }

func (s *MergeBranchSelectScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		if s.OnCancel != nil {
			return nil, s.OnCancel()
		}
		return nil, nil
	case "enter":
		item, ok := s.list.SelectedItem().(branchItem)
		if !ok {
			return s, nil
		}
		if s.OnSelect != nil {
			return nil, s.OnSelect(string(item))
		}
		return nil, nil
	}
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *MergeBranchSelectScreen) View() string {
	return s.list.View()
}
