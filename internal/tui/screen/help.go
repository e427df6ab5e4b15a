package screen

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/chmouel/owt/internal/theme"
)

// helpWidth is the wrap width for the help body, chosen to fit its longest
// line (the 48-column "1/2/3 ... sort by name / recent / status" entry)
// inside the bordered box regardless of terminal size.
const helpWidth = 48

const helpText = `Navigation
  j/k, up/down    move selection
  /               filter by name or branch
  1/2/3           sort by name / recent / status

Operations
  f               fetch
  p               pull
  P               push
  a               add worktree
  d               delete worktree
  m               merge upstream branch
  M               merge, choosing a branch
  r               refresh

Other
  enter           choose worktree and exit
  c               show config
  v               toggle verbose footer detail
  ?               show this help
  q, ctrl+c       quit
`

// HelpScreen is a static keybinding reference; any key closes it.
type HelpScreen struct {
	Palette *theme.Palette
}

func NewHelpScreen(palette *theme.Palette) *HelpScreen {
	return &HelpScreen{Palette: palette}
}

func (s *HelpScreen) Type() Type { return TypeHelp }

func (s *HelpScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	return nil, nil
}

func (s *HelpScreen) View() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Palette.Border).
		Padding(1, 2)
	return box.Render(wordwrap.String(helpText, helpWidth))
}
