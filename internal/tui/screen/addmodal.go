package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/owt/internal/config"
	"github.com/chmouel/owt/internal/theme"
)

// branchTypeItem adapts a config.BranchType to bubbles/list's Item
// interface for the AddModal's TypeSelect step.
type branchTypeItem struct {
	bt config.BranchType
}

func (i branchTypeItem) Title() string {
	if i.bt.Shortcut != "" {
		return fmt.Sprintf("%s (%s)", i.bt.Name, i.bt.Shortcut)
	}
	return i.bt.Name
}
func (i branchTypeItem) Description() string {
	if i.bt.Base != "" {
		return fmt.Sprintf("prefix %s, base %s", i.bt.Prefix, i.bt.Base)
	}
	return fmt.Sprintf("prefix %s", i.bt.Prefix)
}
func (i branchTypeItem) FilterValue() string { return i.bt.Name }

// AddTypeSelectScreen is the first AddModal step: choose a branch-type
// preset (or a plain, prefix-less branch).
type AddTypeSelectScreen struct {
	list    list.Model
	choices []config.BranchType

	OnSelect func(bt config.BranchType) tea.Cmd
	OnCancel func() tea.Cmd
}

// NewAddTypeSelectScreen builds the type list, always offering a
// prefix-less "Plain" choice ahead of the configured presets.
func NewAddTypeSelectScreen(branchTypes []config.BranchType, width, height int) *AddTypeSelectScreen {
	choices := append([]config.BranchType{{Name: "Plain"}}, branchTypes...)
	items := make([]list.Item, len(choices))
	for i, bt := range choices {
		items[i] = branchTypeItem{bt: bt}
	}
	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "New worktree — branch type"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	return &AddTypeSelectScreen{list: l, choices: choices}
}

func (s *AddTypeSelectScreen) Type() Type { return TypeAddTypeSelect }

func (s *AddTypeSelectScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		if s.OnCancel != nil {
			return nil, s.OnCancel()
		}
		return nil, nil
	case "enter":
		idx := s.list.Index()
		if idx < 0 || idx >= len(s.choices) {
			return s, nil
		}
		if s.OnSelect != nil {
			return nil, s.OnSelect(s.choices[idx])
		}
		return nil, nil
	}
	for _, bt := range s.choices {
		if bt.Shortcut != "" && msg.String() == bt.Shortcut {
			if s.OnSelect != nil {
				return nil, s.OnSelect(bt)
			}
			return nil, nil
		}
	}
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *AddTypeSelectScreen) View() string {
	return s.list.View()
}

// AddBranchInputScreen is the second AddModal step: the user types a
// branch name (prefix already seeded), and can optionally switch focus to
// override the base ref inherited from the chosen branch type.
type AddBranchInputScreen struct {
	Prefix      string
	nameInput   textinput.Model
	baseInput   textinput.Model
	editingBase bool
	Palette     *theme.Palette

	OnSubmit func(branch, base string) tea.Cmd
	OnCancel func() tea.Cmd
}

// NewAddBranchInputScreen seeds the branch-name field with prefix and the
// base field with the branch type's configured base (empty means "repo
// default", resolved later by the git driver).
func NewAddBranchInputScreen(prefix, base string, palette *theme.Palette) *AddBranchInputScreen {
	name := textinput.New()
	name.Placeholder = "branch-name"
	name.SetValue(prefix)
	name.CursorEnd()
	name.Focus()

	baseIn := textinput.New()
	baseIn.Placeholder = "base ref (empty = default)"
	baseIn.SetValue(base)

	return &AddBranchInputScreen{
		Prefix:    prefix,
		nameInput: name,
		baseInput: baseIn,
		Palette:   palette,
	}
}

func (s *AddBranchInputScreen) Type() Type { return TypeAddBranchInput }

func (s *AddBranchInputScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		if s.OnCancel != nil {
			return nil, s.OnCancel()
		}
		return nil, nil
	case "tab":
		s.editingBase = !s.editingBase
		if s.editingBase {
			s.nameInput.Blur()
			s.baseInput.Focus()
		} else {
			s.baseInput.Blur()
			s.nameInput.Focus()
		}
		return s, nil
	case "enter":
		branch := strings.TrimSpace(s.nameInput.Value())
		if branch == "" || branch == s.Prefix {
			return s, nil
		}
		if s.OnSubmit != nil {
			return nil, s.OnSubmit(branch, strings.TrimSpace(s.baseInput.Value()))
		}
		return nil, nil
	}

	var cmd tea.Cmd
	if s.editingBase {
		s.baseInput, cmd = s.baseInput.Update(msg)
	} else {
		s.nameInput, cmd = s.nameInput.Update(msg)
	}
	return s, cmd
}

func (s *AddBranchInputScreen) View() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Palette.Accent).
		Padding(1, 2).
		Width(56)

	return box.Render(fmt.Sprintf(
		"New branch name:\n%s\n\nBase ref (tab to edit):\n%s",
		s.nameInput.View(), s.baseInput.View(),
	))
}
