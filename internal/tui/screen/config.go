package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/owt/internal/config"
	"github.com/chmouel/owt/internal/theme"
)

// configOption is one editable row of the ConfigModal: a label plus a
// get/set pair closing over the screen's working copy of the config.
type configOption struct {
	label string
	get   func(config.Config) string
	set   func(*config.Config, string)
}

var configOptions = []configOption{
	{"editor", func(c config.Config) string { return c.Editor }, func(c *config.Config, v string) { c.Editor = v }},
	{"terminal", func(c config.Config) string { return c.Terminal }, func(c *config.Config, v string) { c.Terminal = v }},
	{
		"copy_files",
		func(c config.Config) string { return strings.Join(c.CopyFiles, ", ") },
		func(c *config.Config, v string) { c.CopyFiles = splitCSV(v) },
	},
}

func splitCSV(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ConfigScreen is the ConfigModal state: Esc/q closes without saving, Enter
// edits the selected option's value inline, and s persists the working
// copy to config.Config.Path.
type ConfigScreen struct {
	cfg     config.Config
	Palette *theme.Palette

	cursor  int
	editing bool
	input   textinput.Model
	status  string

	// OnSave is called after a successful write to disk so the caller can
	// adopt the edited config for the rest of the session.
	OnSave func(config.Config) tea.Cmd
}

func NewConfigScreen(cfg config.Config, palette *theme.Palette) *ConfigScreen {
	return &ConfigScreen{cfg: cfg, Palette: palette}
}

func (s *ConfigScreen) Type() Type { return TypeConfig }

func (s *ConfigScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	if s.editing {
		switch msg.String() {
		case "enter":
			configOptions[s.cursor].set(&s.cfg, strings.TrimSpace(s.input.Value()))
			s.editing = false
			s.input.Blur()
			s.status = ""
			return s, nil
		case "esc":
			s.editing = false
			s.input.Blur()
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	switch msg.String() {
	case "esc", "q", "ctrl+c":
		return nil, nil
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
		return s, nil
	case "down", "j":
		if s.cursor < len(configOptions)-1 {
			s.cursor++
		}
		return s, nil
	case "enter":
		opt := configOptions[s.cursor]
		s.input = textinput.New()
		s.input.SetValue(opt.get(s.cfg))
		s.input.CursorEnd()
		s.input.Focus()
		s.editing = true
		s.status = ""
		return s, nil
	case "s":
		if err := config.Save(s.cfg); err != nil {
			s.status = "save failed: " + err.Error()
			return s, nil
		}
		s.status = "saved to " + s.cfg.Path
		if s.OnSave != nil {
			return s, s.OnSave(s.cfg)
		}
		return s, nil
	}
	return s, nil
}

func (s *ConfigScreen) View() string {
	var b strings.Builder
	for i, opt := range configOptions {
		cursor := "  "
		if i == s.cursor {
			cursor = "> "
		}
		if s.editing && i == s.cursor {
			fmt.Fprintf(&b, "%s%-10s = %s\n", cursor, opt.label, s.input.View())
			continue
		}
		fmt.Fprintf(&b, "%s%-10s = %s\n", cursor, opt.label, orDefault(opt.get(s.cfg)))
	}

	b.WriteString("\nbranch_types:\n")
	for _, bt := range s.cfg.BranchTypes {
		fmt.Fprintf(&b, "  %-10s prefix=%-12s base=%-10s shortcut=%s\n", bt.Name, bt.Prefix, orDefault(bt.Base), bt.Shortcut)
	}

	b.WriteString("\nenter edit · s save · esc close\n")
	if s.status != "" {
		b.WriteString(s.status)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Palette.Border).
		Padding(1, 2)
	return box.Render(b.String())
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
