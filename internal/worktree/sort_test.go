package worktree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func names(items []*Worktree) []string {
	out := make([]string, len(items))
	for i, w := range items {
		out[i] = w.DisplayName()
	}
	return out
}

func TestSortWorktreesByName(t *testing.T) {
	items := []*Worktree{
		{Path: "/r/bravo"},
		{Path: "/r/alpha"},
		{Path: "/r/Charlie"},
	}
	sortWorktrees(items, SortName)
	assert.Equal(t, []string{"Charlie", "alpha", "bravo"}, names(items))
}

func TestSortWorktreesByRecentMissingTimestampLast(t *testing.T) {
	now := time.Now()
	items := []*Worktree{
		{Path: "/r/no-commit"},
		{Path: "/r/older", HasLastCommit: true, LastCommit: now.Add(-time.Hour)},
		{Path: "/r/newer", HasLastCommit: true, LastCommit: now},
	}
	sortWorktrees(items, SortRecent)
	assert.Equal(t, []string{"newer", "older", "no-commit"}, names(items))
}

func TestSortWorktreesByRecentTiesByName(t *testing.T) {
	ts := time.Now()
	items := []*Worktree{
		{Path: "/r/bravo", HasLastCommit: true, LastCommit: ts},
		{Path: "/r/alpha", HasLastCommit: true, LastCommit: ts},
	}
	sortWorktrees(items, SortRecent)
	assert.Equal(t, []string{"alpha", "bravo"}, names(items))
}

func TestSortWorktreesByStatusRanking(t *testing.T) {
	items := []*Worktree{
		{Path: "/r/clean", Status: StatusClean},
		{Path: "/r/conflict", Status: StatusConflict},
		{Path: "/r/staged", Status: StatusStaged},
		{Path: "/r/mixed", Status: StatusMixed},
		{Path: "/r/unstaged", Status: StatusUnstaged},
	}
	sortWorktrees(items, SortStatus)
	assert.Equal(t, []string{"conflict", "mixed", "unstaged", "staged", "clean"}, names(items))
}

func TestSortWorktreesByStatusTiesByName(t *testing.T) {
	items := []*Worktree{
		{Path: "/r/bravo", Status: StatusClean},
		{Path: "/r/alpha", Status: StatusClean},
	}
	sortWorktrees(items, SortStatus)
	assert.Equal(t, []string{"alpha", "bravo"}, names(items))
}
