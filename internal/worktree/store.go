package worktree

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// RawWorktree is what the git driver's listing call returns before status
// enrichment: identity only.
type RawWorktree struct {
	Path   string
	Branch string
	IsBare bool
}

// StatusProbe is the per-worktree enrichment the git driver performs after
// listing: status classification, ahead/behind counts, and commit recency.
type StatusProbe struct {
	Status         StatusSummary
	Ahead          int
	Behind         int
	HasUpstream    bool
	UpstreamBranch string
	LastCommit     time.Time
	HasLastCommit  bool
}

// Driver is the subset of the git CLI driver (§4.B) the store needs to
// rebuild itself. Implemented by internal/gitcli.Service; defined here
// because the consumer owns the interface it depends on.
type Driver interface {
	ListWorktrees(ctx context.Context, bareRepoDir string) ([]RawWorktree, error)
	Probe(ctx context.Context, path string) (StatusProbe, error)
}

// Store is the ordered worktree table plus the current sort mode and filter
// string. Selection is owned by the TUI model, not the store, since it is
// view-state rather than data.
type Store struct {
	mu       sync.RWMutex
	items    []*Worktree
	sortMode SortMode
	filter   string
}

// NewStore returns an empty store with default sort mode Recent (mirrors the
// teacher's "switched" default: most-recently-touched worktrees float to the
// top so the user's current work is never buried).
func NewStore() *Store {
	return &Store{sortMode: SortRecent}
}

// SetSortMode changes the ordering used by Visible.
func (s *Store) SetSortMode(mode SortMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortMode = mode
}

// SortMode returns the current sort mode.
func (s *Store) SortMode() SortMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortMode
}

// SetFilter sets the case-insensitive substring query.
func (s *Store) SetFilter(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = query
}

// Filter returns the current filter query.
func (s *Store) Filter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// All returns every worktree regardless of filter (used by lookups keyed by
// path, e.g. resolving ActiveOp.WorktreePath back to a row).
func (s *Store) All() []*Worktree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Worktree, len(s.items))
	copy(out, s.items)
	return out
}

// ByPath finds a worktree by its primary key.
func (s *Store) ByPath(path string) *Worktree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.items {
		if w.Path == path {
			return w
		}
	}
	return nil
}

// Visible returns the filtered+sorted view used for rendering and selection
// arithmetic. Non-matching entries are still included; the TUI table is
// built from VisibleMatching instead, so filtered-out rows are not drawn.
func (s *Store) Visible() []*Worktree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Worktree, len(s.items))
	copy(out, s.items)
	sortWorktrees(out, s.sortMode)
	return out
}

// VisibleMatching returns only the entries that match the current filter,
// in the current sort order — the sequence Enter/selection arithmetic
// indexes into.
func (s *Store) VisibleMatching() []*Worktree {
	visible := s.Visible()
	s.mu.RLock()
	query := s.filter
	s.mu.RUnlock()

	if query == "" {
		return visible
	}
	out := make([]*Worktree, 0, len(visible))
	for _, w := range visible {
		if w.matches(query) {
			out = append(out, w)
		}
	}
	return out
}

// RemoveByPath removes a worktree in-memory without I/O; used by the Delete
// completion handler to avoid a full refresh on the hot path (§4.E, §9
// "Optimistic delete").
func (s *Store) RemoveByPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.items {
		if w.Path == path {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Append inserts a newly-added worktree; used after Add completes as a
// cheap alternative to a full refresh when the caller already knows the
// entry's identity.
func (s *Store) Append(w *Worktree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, w)
}

// Refresh rebuilds the store from the git driver: a listing call followed
// by concurrent per-worktree status probes, grounded on the teacher's
// GetWorktrees goroutine-pool pattern. bareRepoDir anchors the listing call
// (git has no notion of "current repo" without a directory to resolve from);
// currentPath marks is_current on the worktree the process was launched
// from, if any.
func (s *Store) Refresh(ctx context.Context, driver Driver, bareRepoDir, currentPath string) error {
	raw, err := driver.ListWorktrees(ctx, bareRepoDir)
	if err != nil {
		return err
	}

	limit := runtime.NumCPU() * 2
	if limit < 4 {
		limit = 4
	}
	if limit > 32 {
		limit = 32
	}
	sem := make(chan struct{}, limit)

	type probed struct {
		idx int
		wt  *Worktree
	}
	results := make(chan probed, len(raw))
	var wg sync.WaitGroup

	for i, rw := range raw {
		wg.Add(1)
		go func(i int, rw RawWorktree) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			w := &Worktree{
				Path:      rw.Path,
				Branch:    rw.Branch,
				IsBare:    rw.IsBare,
				IsCurrent: currentPath != "" && rw.Path == currentPath,
			}

			if !rw.IsBare {
				if probe, perr := driver.Probe(ctx, rw.Path); perr == nil {
					w.Status = probe.Status
					w.Ahead = probe.Ahead
					w.Behind = probe.Behind
					w.HasUpstream = probe.HasUpstream
					w.UpstreamBranch = probe.UpstreamBranch
					w.LastCommit = probe.LastCommit
					w.HasLastCommit = probe.HasLastCommit
				}
			}

			results <- probed{idx: i, wt: w}
		}(i, rw)
	}

	wg.Wait()
	close(results)

	items := make([]*Worktree, len(raw))
	for r := range results {
		items[r.idx] = r.wt
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}
