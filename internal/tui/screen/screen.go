// Package screen provides the modal-overlay stack used for every owt view
// state that isn't the plain worktree list: Add, confirm-delete, config,
// help, and the merge-source picker.
package screen

import tea "github.com/charmbracelet/bubbletea"

// Screen is a modal overlay that owns its own key handling and rendering.
type Screen interface {
	// Update processes a key message. Returning nil for the Screen signals
	// that this screen should be popped.
	Update(msg tea.KeyMsg) (Screen, tea.Cmd)
	View() string
	Type() Type
}

// Type identifies which modal is active, matching spec.md §4.F's
// ViewState variants (List and Filter have no Screen — they're rendered
// directly by the main model).
type Type int

const (
	TypeNone Type = iota
	TypeAddTypeSelect
	TypeAddBranchInput
	TypeConfirmDelete
	TypeConfig
	TypeHelp
	TypeMergeSelect
)

func (t Type) String() string {
	switch t {
	case TypeAddTypeSelect:
		return "add-type-select"
	case TypeAddBranchInput:
		return "add-branch-input"
	case TypeConfirmDelete:
		return "confirm-delete"
	case TypeConfig:
		return "config"
	case TypeHelp:
		return "help"
	case TypeMergeSelect:
		return "merge-select"
	default:
		return "none"
	}
}
