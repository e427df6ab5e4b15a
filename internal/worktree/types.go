// Package worktree holds the in-memory model of the worktrees managed by
// owt: the Worktree/Store types, the sort and filter contracts, and the
// operation vocabulary (OpKind/OpResult/ActiveOp) shared between the
// dispatcher and the completion handlers.
package worktree

import "time"

// StatusSummary classifies the working-tree state of a Worktree.
type StatusSummary string

const (
	StatusClean    StatusSummary = "clean"
	StatusStaged   StatusSummary = "staged"
	StatusUnstaged StatusSummary = "unstaged"
	StatusConflict StatusSummary = "conflict"
	StatusMixed    StatusSummary = "mixed"
)

// statusRank orders StatusSummary values for the Status sort mode:
// conflict > mixed > unstaged > staged > clean.
var statusRank = map[StatusSummary]int{
	StatusConflict: 4,
	StatusMixed:    3,
	StatusUnstaged: 2,
	StatusStaged:   1,
	StatusClean:    0,
}

// Worktree is one checkout of the bare repository.
type Worktree struct {
	Path           string // absolute path, primary key
	Branch         string
	Status         StatusSummary
	Ahead          int
	Behind         int
	LastCommit     time.Time
	HasLastCommit  bool
	IsBare         bool
	IsCurrent      bool
	HasUpstream    bool
	UpstreamBranch string
}

// DisplayName is the name shown in the list: the last path segment.
func (w *Worktree) DisplayName() string {
	if w == nil || w.Path == "" {
		return ""
	}
	for i := len(w.Path) - 1; i >= 0; i-- {
		if w.Path[i] == '/' {
			return w.Path[i+1:]
		}
	}
	return w.Path
}

// SortMode selects the ordering applied by Store.Visible.
type SortMode int

const (
	SortName SortMode = iota
	SortRecent
	SortStatus
)

// OpKind is the tagged variant of background operations.
type OpKind int

const (
	OpFetch OpKind = iota
	OpPull
	OpPush
	OpAdd
	OpDelete
	OpMerge
)

// Verb returns the present-participle label used in footer/spinner text,
// e.g. "Fetching".
func (k OpKind) Verb() string {
	switch k {
	case OpFetch:
		return "Fetching"
	case OpPull:
		return "Pulling"
	case OpPush:
		return "Pushing"
	case OpAdd:
		return "Adding"
	case OpDelete:
		return "Deleting"
	case OpMerge:
		return "Merging"
	default:
		return "Working"
	}
}

// OpResult is produced by a background worker and consumed by the
// completion poller.
type OpResult struct {
	Kind         OpKind
	Success      bool
	Message      string
	CmdDetail    string
	WorktreePath string
	DisplayName  string
}

// ActiveOp is present iff a background operation is in flight. At most one
// exists at any time; enforcing that invariant is the dispatcher's job, not
// this type's.
type ActiveOp struct {
	Kind         OpKind
	WorktreePath string
	DisplayName  string
}
