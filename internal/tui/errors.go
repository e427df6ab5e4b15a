package tui

import "errors"

// Precondition errors (§4.D/§9's error taxonomy): rejected before any git
// process is spawned, so they never occupy the single-flight slot.
var (
	errNoSelection       = errors.New("no worktree selected")
	errBareWorktree      = errors.New("cannot run this operation on the bare repository")
	errDeleteCurrent     = errors.New("cannot delete the worktree owt was launched from")
	errNoMergeSource     = errors.New("no source branch chosen")
	errNoBranchName      = errors.New("no branch name given")
	errPullNotClean      = errors.New("pull requires a clean worktree")
	errMergeNotClean     = errors.New("merge requires a clean worktree")
	errDeleteDirty       = errors.New("cannot delete a worktree with uncommitted changes")
	errAddDirNotWritable = errors.New("target directory is not writable")
	errWorktreeBusy      = errors.New("an operation is already running on this worktree")
)
