// Package theme provides the color palette used by the worktree dashboard's
// renderer.
package theme

import "github.com/charmbracelet/lipgloss"

// Palette defines the colors used to draw the dashboard.
type Palette struct {
	Accent    lipgloss.Color
	AccentFg  lipgloss.Color
	AccentDim lipgloss.Color
	Border    lipgloss.Color
	BorderDim lipgloss.Color
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	SuccessFg lipgloss.Color
	WarnFg    lipgloss.Color
	ErrorFg   lipgloss.Color
}

// Dracula is the default palette.
func Dracula() *Palette {
	return &Palette{
		Accent:    lipgloss.Color("#BD93F9"),
		AccentFg:  lipgloss.Color("#282A36"),
		AccentDim: lipgloss.Color("#44475A"),
		Border:    lipgloss.Color("#6272A4"),
		BorderDim: lipgloss.Color("#44475A"),
		MutedFg:   lipgloss.Color("#6272A4"),
		TextFg:    lipgloss.Color("#F8F8F2"),
		SuccessFg: lipgloss.Color("#50FA7B"),
		WarnFg:    lipgloss.Color("#FFB86C"),
		ErrorFg:   lipgloss.Color("#FF5555"),
	}
}

// Styles bundles the lipgloss.Style values derived from a Palette, computed
// once at startup and reused by every render pass.
type Styles struct {
	Selected   lipgloss.Style
	Dimmed     lipgloss.Style
	SpinnerRed lipgloss.Style // Delete operations
	SpinnerAmb lipgloss.Style // every other operation kind
	Footer     lipgloss.Style
	FooterWarn lipgloss.Style
	FooterErr  lipgloss.Style
	ModalBox   lipgloss.Style
	Header     lipgloss.Style
	StatusDot  map[string]lipgloss.Style
}

// NewStyles derives a Styles bundle from a Palette.
func NewStyles(p *Palette) *Styles {
	return &Styles{
		Selected:   lipgloss.NewStyle().Background(p.AccentDim).Foreground(p.TextFg).Bold(true),
		Dimmed:     lipgloss.NewStyle().Foreground(p.MutedFg),
		SpinnerRed: lipgloss.NewStyle().Foreground(p.ErrorFg).Bold(true),
		SpinnerAmb: lipgloss.NewStyle().Foreground(p.WarnFg).Bold(true),
		Footer:     lipgloss.NewStyle().Foreground(p.TextFg),
		FooterWarn: lipgloss.NewStyle().Foreground(p.WarnFg),
		FooterErr:  lipgloss.NewStyle().Foreground(p.ErrorFg).Bold(true),
		ModalBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(1, 2),
		Header:     lipgloss.NewStyle().Foreground(p.AccentFg).Background(p.Accent).Bold(true).Padding(0, 1),
		StatusDot: map[string]lipgloss.Style{
			"clean":    lipgloss.NewStyle().Foreground(p.SuccessFg),
			"staged":   lipgloss.NewStyle().Foreground(p.Accent),
			"unstaged": lipgloss.NewStyle().Foreground(p.WarnFg),
			"mixed":    lipgloss.NewStyle().Foreground(p.WarnFg),
			"conflict": lipgloss.NewStyle().Foreground(p.ErrorFg).Bold(true),
		},
	}
}
