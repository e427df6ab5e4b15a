package screen

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/owt/internal/theme"
)

// ConfirmDeleteScreen is spec.md §4.F's ConfirmDelete state: a yes/no
// prompt with a toggle for whether the branch should be deleted alongside
// the worktree.
type ConfirmDeleteScreen struct {
	WorktreePath     string
	DisplayName      string
	AlsoDeleteBranch bool
	SelectedButton   int // 0 = Delete, 1 = Cancel
	Palette          *theme.Palette

	OnConfirm func(alsoDeleteBranch bool) tea.Cmd
	OnCancel  func() tea.Cmd
}

// NewConfirmDeleteScreen preloads the prompt for the given worktree.
func NewConfirmDeleteScreen(path, displayName string, palette *theme.Palette) *ConfirmDeleteScreen {
	return &ConfirmDeleteScreen{
		WorktreePath: path,
		DisplayName:  displayName,
		Palette:      palette,
	}
}

func (s *ConfirmDeleteScreen) Type() Type { return TypeConfirmDelete }

func (s *ConfirmDeleteScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "right", "l", "shift+tab", "left", "h":
		s.SelectedButton = (s.SelectedButton + 1) % 2
	case "b":
		s.AlsoDeleteBranch = !s.AlsoDeleteBranch
	case "y", "Y":
		if s.OnConfirm != nil {
			return nil, s.OnConfirm(s.AlsoDeleteBranch)
		}
		return nil, nil
	case "n", "N", "esc", "q", "ctrl+c":
		if s.OnCancel != nil {
			return nil, s.OnCancel()
		}
		return nil, nil
	case "enter":
		if s.SelectedButton == 0 {
			if s.OnConfirm != nil {
				return nil, s.OnConfirm(s.AlsoDeleteBranch)
			}
			return nil, nil
		}
		if s.OnCancel != nil {
			return nil, s.OnCancel()
		}
		return nil, nil
	}
	return s, nil
}

func (s *ConfirmDeleteScreen) View() string {
	width := 56

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Palette.ErrorFg).
		Padding(1, 2).
		Width(width)

	message := fmt.Sprintf("Remove worktree %q?", s.DisplayName)

	branchToggle := "[ ] also delete branch"
	if s.AlsoDeleteBranch {
		branchToggle = "[x] also delete branch"
	}

	buttonStyle := lipgloss.NewStyle().Padding(0, 2).Bold(true)
	unfocused := buttonStyle.Foreground(s.Palette.MutedFg).Background(s.Palette.BorderDim)
	focusedDelete := buttonStyle.Foreground(s.Palette.AccentFg).Background(s.Palette.ErrorFg)
	focusedCancel := buttonStyle.Foreground(s.Palette.AccentFg).Background(s.Palette.Accent)

	var deleteBtn, cancelBtn string
	if s.SelectedButton == 0 {
		deleteBtn, cancelBtn = focusedDelete.Render("[Delete]"), unfocused.Render("[Cancel]")
	} else {
		deleteBtn, cancelBtn = unfocused.Render("[Delete]"), focusedCancel.Render("[Cancel]")
	}

	content := fmt.Sprintf("%s\n\n%s  (b to toggle)\n\n%s  %s", message, branchToggle, deleteBtn, cancelBtn)
	return box.Render(content)
}
