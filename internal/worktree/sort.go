package worktree

import "sort"

// sortWorktrees orders a slice in place per the given mode. All three modes
// are stable and fall back to ascending display-name comparison to break
// ties, so re-sorting after a partial refresh never reshuffles rows whose
// primary key didn't change.
func sortWorktrees(items []*Worktree, mode SortMode) {
	switch mode {
	case SortName:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].DisplayName() < items[j].DisplayName()
		})
	case SortRecent:
		sort.SliceStable(items, byRecent(items))
	case SortStatus:
		sort.SliceStable(items, byStatus(items))
	}
}

// byRecent orders by last-commit timestamp descending; entries missing a
// timestamp sort last, ties broken by name ascending.
func byRecent(items []*Worktree) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := items[i], items[j]
		if a.HasLastCommit != b.HasLastCommit {
			return a.HasLastCommit
		}
		if a.HasLastCommit && b.HasLastCommit && !a.LastCommit.Equal(b.LastCommit) {
			return a.LastCommit.After(b.LastCommit)
		}
		return a.DisplayName() < b.DisplayName()
	}
}

// byStatus orders conflict > mixed > unstaged > staged > clean, ties broken
// by name ascending.
func byStatus(items []*Worktree) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := items[i], items[j]
		ra, rb := statusRank[a.Status], statusRank[b.Status]
		if ra != rb {
			return ra > rb
		}
		return a.DisplayName() < b.DisplayName()
	}
}
