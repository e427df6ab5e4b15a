// Package gitcli drives worktree operations by shelling out to the git CLI.
// It implements worktree.Driver plus the operation methods the dispatcher
// invokes (fetch/pull/push/add/remove/merge), and never touches the
// in-memory model directly — every call returns plain data or an error.
package gitcli

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/chmouel/owt/internal/worktree"
)

// Service is the git CLI driver. The semaphore bounds concurrent git
// invocations during a refresh so a repo with hundreds of worktrees does
// not fork hundreds of processes at once.
type Service struct {
	semaphore chan struct{}
}

// NewService sizes the concurrency limit off the host, clamped to [4,32] —
// grounded on the teacher's internal/git/service.go NewService sizing.
func NewService() *Service {
	limit := runtime.NumCPU() * 2
	if limit < 4 {
		limit = 4
	}
	if limit > 32 {
		limit = 32
	}
	return &Service{semaphore: make(chan struct{}, limit)}
}

// allowedCommand is the same three-binary allowlist the teacher enforces
// before ever shelling out, applied here to git alone since owt has no
// PR/CI host integration.
func allowedCommand(ctx context.Context, name string, args []string) (*exec.Cmd, error) {
	if name != "git" {
		return nil, fmt.Errorf("gitcli: refusing to run disallowed command %q", name)
	}
	return exec.CommandContext(ctx, name, args...), nil
}

// runGit executes `git <args...>` in cwd. okReturnCodes lists exit codes
// that should not be treated as failure (git status --porcelain returns 1
// on a dirty tree in some configurations, etc.); pass nil to accept only 0.
func (s *Service) runGit(ctx context.Context, args []string, cwd string, okReturnCodes ...int) (string, error) {
	cmd, err := allowedCommand(ctx, "git", args)
	if err != nil {
		return "", err
	}
	cmd.Dir = cwd

	out, err := cmd.Output()
	if err == nil {
		return string(out), nil
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return "", fmt.Errorf("gitcli: git %s: %w", strings.Join(args, " "), err)
	}
	code := exitErr.ExitCode()
	for _, ok := range okReturnCodes {
		if code == ok {
			return string(out), nil
		}
	}
	return "", fmt.Errorf("gitcli: git %s: exit %d: %s", strings.Join(args, " "), code, strings.TrimSpace(string(exitErr.Stderr)))
}

// ListWorktrees parses `git worktree list --porcelain` into identity-only
// rows; status enrichment happens separately in Probe so callers can run it
// concurrently per worktree.
func (s *Service) ListWorktrees(ctx context.Context, bareRepoDir string) ([]worktree.RawWorktree, error) {
	out, err := s.runGit(ctx, []string{"worktree", "list", "--porcelain"}, bareRepoDir)
	if err != nil {
		return nil, err
	}
	return parseWorktreeList(out), nil
}

func parseWorktreeList(out string) []worktree.RawWorktree {
	var (
		items   []worktree.RawWorktree
		current worktree.RawWorktree
		have    bool
	)
	flush := func() {
		if have {
			items = append(items, current)
		}
		current = worktree.RawWorktree{}
		have = false
	}
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			flush()
			current.Path = strings.TrimPrefix(line, "worktree ")
			have = true
		case strings.HasPrefix(line, "branch "):
			ref := strings.TrimPrefix(line, "branch ")
			current.Branch = strings.TrimPrefix(ref, "refs/heads/")
		case line == "bare":
			current.IsBare = true
		case line == "detached":
			current.Branch = "(detached)"
		}
	}
	flush()
	return items
}

// Probe runs the per-worktree enrichment: status classification,
// ahead/behind counts, upstream tracking, and last-commit time. Grounded on
// the teacher's per-worktree `git status --porcelain=v2 --branch` parse in
// GetWorktrees.
func (s *Service) Probe(ctx context.Context, path string) (worktree.StatusProbe, error) {
	s.semaphore <- struct{}{}
	defer func() { <-s.semaphore }()

	var probe worktree.StatusProbe

	statusOut, err := s.runGit(ctx, []string{"status", "--porcelain=v2", "--branch"}, path)
	if err != nil {
		return probe, err
	}
	parseStatusPorcelainV2(statusOut, &probe)

	if t, ok, err := s.lastCommitTime(ctx, path); err == nil {
		probe.LastCommit = t
		probe.HasLastCommit = ok
	}

	return probe, nil
}

func parseStatusPorcelainV2(out string, probe *worktree.StatusProbe) {
	var staged, unstaged, conflict int
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "# branch.ab "):
			fields := strings.Fields(line)
			for _, f := range fields[2:] {
				if strings.HasPrefix(f, "+") {
					probe.Ahead, _ = strconv.Atoi(strings.TrimPrefix(f, "+"))
				} else if strings.HasPrefix(f, "-") {
					probe.Behind, _ = strconv.Atoi(strings.TrimPrefix(f, "-"))
				}
			}
		case strings.HasPrefix(line, "# branch.upstream "):
			probe.HasUpstream = true
			probe.UpstreamBranch = strings.TrimPrefix(line, "# branch.upstream ")
		case strings.HasPrefix(line, "u "):
			conflict++
		case strings.HasPrefix(line, "1 ") || strings.HasPrefix(line, "2 "):
			fields := strings.Fields(line)
			if len(fields) < 2 || len(fields[1]) < 2 {
				continue
			}
			xy := fields[1]
			if xy[0] != '.' {
				staged++
			}
			if xy[1] != '.' {
				unstaged++
			}
		}
	}

	switch {
	case conflict > 0:
		probe.Status = worktree.StatusConflict
	case staged > 0 && unstaged > 0:
		probe.Status = worktree.StatusMixed
	case staged > 0:
		probe.Status = worktree.StatusStaged
	case unstaged > 0:
		probe.Status = worktree.StatusUnstaged
	default:
		probe.Status = worktree.StatusClean
	}
}

func (s *Service) lastCommitTime(ctx context.Context, path string) (time.Time, bool, error) {
	out, err := s.runGit(ctx, []string{"log", "-1", "--format=%ct"}, path, 128)
	if err != nil {
		return time.Time{}, false, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return time.Time{}, false, nil
	}
	sec, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(sec, 0), true, nil
}

// Fetch runs `git fetch` in the given worktree and returns the command
// detail line shown in the operation footer on completion.
func (s *Service) Fetch(ctx context.Context, path string) (string, error) {
	if _, err := s.runGit(ctx, []string{"fetch"}, path); err != nil {
		return "", err
	}
	return "git fetch", nil
}

// Pull runs `git pull --ff-only`; owt never merges by surprise, so a
// diverged branch fails Pull rather than creating a merge commit silently.
func (s *Service) Pull(ctx context.Context, path string) (string, error) {
	if _, err := s.runGit(ctx, []string{"pull", "--ff-only"}, path); err != nil {
		return "", err
	}
	return "git pull --ff-only", nil
}

// Push runs `git push`.
func (s *Service) Push(ctx context.Context, path string) (string, error) {
	if _, err := s.runGit(ctx, []string{"push"}, path); err != nil {
		return "", err
	}
	return "git push", nil
}

// Merge runs `git merge <source>` inside the target worktree.
func (s *Service) Merge(ctx context.Context, path, source string) (string, error) {
	detail := fmt.Sprintf("git merge %s", source)
	if _, err := s.runGit(ctx, []string{"merge", source}, path); err != nil {
		return detail, err
	}
	return detail, nil
}

// branchExistsLocally reports whether a local branch ref exists.
func (s *Service) branchExistsLocally(ctx context.Context, bareRoot, branch string) bool {
	_, err := s.runGit(ctx, []string{"show-ref", "--verify", "--quiet", "refs/heads/" + branch}, bareRoot)
	return err == nil
}

// branchExistsOnRemote reports whether origin/<branch> exists.
func (s *Service) branchExistsOnRemote(ctx context.Context, bareRoot, branch string) bool {
	_, err := s.runGit(ctx, []string{"show-ref", "--verify", "--quiet", "refs/remotes/origin/" + branch}, bareRoot)
	return err == nil
}

// AddWorktree creates a new worktree at path checking out branch, resolving
// its existence three ways exactly as original_source/src/git.rs does: a
// local branch is added as-is; a remote-only branch is tracked with -b;
// otherwise a fresh branch is cut from base (or the repo default if base is
// empty).
func (s *Service) AddWorktree(ctx context.Context, bareRoot, path, branch, base string) (string, error) {
	args, detail := s.buildAddWorktreeArgs(ctx, bareRoot, path, branch, base)
	if _, err := s.runGit(ctx, args, bareRoot); err != nil {
		return detail, err
	}
	return detail, nil
}

func (s *Service) buildAddWorktreeArgs(ctx context.Context, bareRoot, path, branch, base string) ([]string, string) {
	switch {
	case s.branchExistsLocally(ctx, bareRoot, branch):
		return []string{"worktree", "add", path, branch},
			fmt.Sprintf("git worktree add %s %s", path, branch)
	case s.branchExistsOnRemote(ctx, bareRoot, branch):
		return []string{"worktree", "add", "--track", "-b", branch, path, "origin/" + branch},
			fmt.Sprintf("git worktree add --track -b %s %s origin/%s", branch, path, branch)
	case base != "":
		return []string{"worktree", "add", "-b", branch, path, base},
			fmt.Sprintf("git worktree add -b %s %s %s", branch, path, base)
	default:
		return []string{"worktree", "add", "-b", branch, path},
			fmt.Sprintf("git worktree add -b %s %s", branch, path)
	}
}

// BuildAddWorktreeCommandDetail previews the command Add will run without
// running the add itself. It still runs the git show-ref lookups that pick
// among the three add forms, so it needs a live ctx and bareRoot.
func (s *Service) BuildAddWorktreeCommandDetail(ctx context.Context, bareRoot, path, branch, base string) string {
	_, detail := s.buildAddWorktreeArgs(ctx, bareRoot, path, branch, base)
	return detail
}

// RemoveWorktree removes the worktree at path and, if alsoDeleteBranch is
// set, deletes its branch afterward. Branch deletion failure (e.g. the
// branch is checked out elsewhere) is reported but does not roll back the
// worktree removal, mirroring the two-step nature of the underlying git
// commands.
func (s *Service) RemoveWorktree(ctx context.Context, bareRoot, path, branch string, alsoDeleteBranch bool) (string, error) {
	detail := fmt.Sprintf("git worktree remove %s", path)
	if _, err := s.runGit(ctx, []string{"worktree", "remove", "--force", path}, bareRoot); err != nil {
		return detail, err
	}
	if alsoDeleteBranch && branch != "" {
		detail = fmt.Sprintf("%s && git branch -D %s", detail, branch)
		if _, err := s.runGit(ctx, []string{"branch", "-D", branch}, bareRoot); err != nil {
			return detail, err
		}
	}
	return detail, nil
}

// ListLocalBranches returns local branch names for the merge-source picker.
func (s *Service) ListLocalBranches(ctx context.Context, bareRoot string) ([]string, error) {
	out, err := s.runGit(ctx, []string{"for-each-ref", "--format=%(refname:short)", "refs/heads"}, bareRoot)
	if err != nil {
		return nil, err
	}
	var branches []string
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}

// RevParseGitCommonDir resolves the shared .git directory for a checkout —
// used during bare-repo detection when cwd is itself a linked worktree.
func (s *Service) RevParseGitCommonDir(ctx context.Context, dir string) (string, error) {
	out, err := s.runGit(ctx, []string{"rev-parse", "--git-common-dir"}, dir)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// IsBareRepo reports whether dir is a bare repository.
func (s *Service) IsBareRepo(ctx context.Context, dir string) (bool, error) {
	out, err := s.runGit(ctx, []string{"rev-parse", "--is-bare-repository"}, dir)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "true", nil
}

// IsGitRepo reports whether dir is inside any git repository, bare or not.
func (s *Service) IsGitRepo(ctx context.Context, dir string) bool {
	_, err := s.runGit(ctx, []string{"rev-parse", "--git-dir"}, dir)
	return err == nil
}

// CloneBare clones url as a bare repository at path.
func (s *Service) CloneBare(ctx context.Context, url, path string) (string, error) {
	return s.runGit(ctx, []string{"clone", "--bare", url, path}, "")
}

// DefaultBranch resolves the branch HEAD points at in a bare repository,
// falling back to main/master if HEAD is unborn.
func (s *Service) DefaultBranch(ctx context.Context, bareRepoDir string) (string, error) {
	out, err := s.runGit(ctx, []string{"symbolic-ref", "HEAD"}, bareRepoDir)
	if err == nil {
		if branch, ok := strings.CutPrefix(strings.TrimSpace(out), "refs/heads/"); ok {
			return branch, nil
		}
	}
	for _, candidate := range []string{"main", "master"} {
		if s.branchExistsLocally(ctx, bareRepoDir, candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("gitcli: could not determine default branch for %s", bareRepoDir)
}
