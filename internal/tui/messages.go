package tui

import (
	"github.com/chmouel/owt/internal/postadd"
	"github.com/chmouel/owt/internal/worktree"
)

// mergeBranchesLoadedMsg carries the local-branch list back from the
// git driver so the MergeBranchSelect screen can be populated; loading it
// off the single-flight slot means opening the picker never contends with
// an in-flight fetch/pull/push.
type mergeBranchesLoadedMsg struct {
	target   *worktree.Worktree
	branches []string
}

// opResultMsg is delivered when a background operation (fetch/pull/push/
// add/delete/merge) finishes. It carries the worktree.OpResult produced by
// the git driver call the dispatcher spawned.
type opResultMsg struct {
	result worktree.OpResult
}

// refreshDoneMsg is delivered when a store-wide refresh completes. Several
// operations trigger a refresh as their completion side effect (§4.D).
// Store.Refresh has already replaced the store's contents, under the
// store's lock, on the Cmd goroutine; handling this message on the UI
// goroutine rebuilds the table rows and restores the pending selection.
type refreshDoneMsg struct {
	err error
}

// postAddDoneMsg is delivered when the post-add hook script finishes. It is
// intentionally distinct from opResultMsg: a slow hook must never occupy
// the single ActiveOp slot the dispatcher guards.
type postAddDoneMsg struct {
	result postadd.Result
}

// watchTriggeredMsg is delivered when the filesystem watcher observes a
// change under the bare repository's refs/HEAD. It carries no data — it
// only asks for a refresh.
type watchTriggeredMsg struct{}

// footerClearMsg clears a transient footer message after its display
// window elapses.
type footerClearMsg struct {
	generation int
}
