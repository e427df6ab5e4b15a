package worktree

import "strings"

// matches implements the filter contract of §4.A: case-insensitive
// substring match against display name OR branch; an empty query matches
// everything.
func (w *Worktree) matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(w.DisplayName()), q) ||
		strings.Contains(strings.ToLower(w.Branch), q)
}
