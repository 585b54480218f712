package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alimgiray/gchangelog/internal/models"
	"github.com/alimgiray/gchangelog/pkg/logger"
	"github.com/sirupsen/logrus"
)

// PullRequestResolver looks up the pull request behind a merge commit
type PullRequestResolver interface {
	ResolveMergeCommit(ctx context.Context, commitID string) *models.PullRequest
	ListPullRequestCommits(ctx context.Context, pr *models.PullRequest) []*models.PullRequestCommit
}

// AuthorResolver attributes a commit to a GitHub account
type AuthorResolver interface {
	ResolveAuthor(ctx context.Context, commit *models.Commit) *models.Author
}

// CommitIterator yields commits in walk order and io.EOF at the end
type CommitIterator interface {
	Next() (*models.Commit, error)
}

// ChangelogService assembles the changelog text from a history walk
type ChangelogService struct {
	pullRequests  PullRequestResolver
	authors       AuthorResolver
	commitURLBase string
	strict        bool
}

func NewChangelogService(pullRequests PullRequestResolver, authors AuthorResolver, commitURLBase string, strict bool) *ChangelogService {
	return &ChangelogService{
		pullRequests:  pullRequests,
		authors:       authors,
		commitURLBase: strings.TrimRight(commitURLBase, "/"),
		strict:        strict,
	}
}

// assembly is the state of one Generate call
type assembly struct {
	out     strings.Builder
	section string
	skip    *SkipSet
	stats   assemblyStats
}

type assemblyStats struct {
	commits      int
	sections     int
	pullRequests int
	skipped      int
	unattributed int
}

// Generate consumes commits once and renders them grouped by release section.
// Pull request commits are nested under their merge commit and suppressed when
// the walk reaches them again. A ConsistencyError aborts generation in strict mode.
func (s *ChangelogService) Generate(ctx context.Context, commits CommitIterator, tags models.TagIndex) (string, error) {
	a := &assembly{skip: NewSkipSet(s.strict)}

	for {
		commit, err := commits.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		if err := s.process(ctx, a, commit, tags); err != nil {
			return "", err
		}
	}

	if pending := a.skip.Pending(); len(pending) > 0 {
		logger.WithField("commits", pending).Warn("Pull request commits never appeared in the local history")
	}

	logger.WithFields(logrus.Fields{
		"commits":       a.stats.commits,
		"sections":      a.stats.sections,
		"pull_requests": a.stats.pullRequests,
		"skipped":       a.stats.skipped,
		"unattributed":  a.stats.unattributed,
	}).Info("Changelog assembled")

	return a.out.String(), nil
}

func (s *ChangelogService) process(ctx context.Context, a *assembly, commit *models.Commit, tags models.TagIndex) error {
	a.stats.commits++
	s.openSection(a, commit, tags)

	skipped, err := a.skip.Consume(commit.ID)
	if err != nil {
		return err
	}
	if skipped {
		a.stats.skipped++
		logger.Debugf("Skipping %s, already listed under a pull request", commit.ShortID())
		return nil
	}

	if commit.IsMerge() {
		s.writeMerge(ctx, a, commit)
		return nil
	}

	s.writeCommit(ctx, a, commit)
	return nil
}

// openSection writes a section header for tagged commits, and the unreleased
// header once if the walk starts with untagged commits
func (s *ChangelogService) openSection(a *assembly, commit *models.Commit, tags models.TagIndex) {
	if tag, ok := tags.Lookup(commit.ID); ok {
		if a.out.Len() > 0 {
			a.out.WriteString("\n")
		}
		a.section = tag
		a.stats.sections++
		fmt.Fprintf(&a.out, "[%s] - %s\n", tag, commit.Date())
		return
	}

	if a.section == "" {
		a.section = models.SectionUnreleased
		a.stats.sections++
		fmt.Fprintf(&a.out, "[%s] - %s\n", models.SectionUnreleased, commit.Date())
	}
}

func (s *ChangelogService) writeMerge(ctx context.Context, a *assembly, commit *models.Commit) {
	pr := s.pullRequests.ResolveMergeCommit(ctx, commit.ID)
	if pr == nil {
		a.stats.unattributed++
		fmt.Fprintf(&a.out, "- **unattributed merge** %s %s\n", commit.Summary(), s.commitLink(commit.ID))
		return
	}

	a.stats.pullRequests++
	prCommits := s.pullRequests.ListPullRequestCommits(ctx, pr)
	ids := make([]string, 0, len(prCommits))
	for _, c := range prCommits {
		ids = append(ids, c.ID)
	}
	a.skip.Add(pr.Number, ids...)

	switch len(prCommits) {
	case 0:
		fmt.Fprintf(&a.out, "- %s %s **no commits found**\n", pullRequestLink(pr), pr.DisplayTitle())
	case 1:
		only := prCommits[0]
		fmt.Fprintf(&a.out, "- %s%s (%s)\n", only.Summary(), mention(only.AuthorLogin), pullRequestLink(pr))
	default:
		fmt.Fprintf(&a.out, "- %s %s%s\n", pullRequestLink(pr), pr.DisplayTitle(), mention(pr.AuthorLogin))
		for _, c := range prCommits {
			fmt.Fprintf(&a.out, "    - %s%s\n", c.Summary(), mention(c.AuthorLogin))
		}
	}
}

func (s *ChangelogService) writeCommit(ctx context.Context, a *assembly, commit *models.Commit) {
	author := s.authors.ResolveAuthor(ctx, commit)
	if author == nil {
		fmt.Fprintf(&a.out, "- %s\n", commit.Summary())
		return
	}
	fmt.Fprintf(&a.out, "- %s @%s %s\n", commit.Summary(), author.Login, s.commitLink(commit.ID))
}

func (s *ChangelogService) commitLink(id string) string {
	return fmt.Sprintf("[%s](%s/%s)", models.ShortID(id), s.commitURLBase, id)
}

func pullRequestLink(pr *models.PullRequest) string {
	if pr.URL == "" {
		return fmt.Sprintf("PR #%d", pr.Number)
	}
	return fmt.Sprintf("PR [#%d](%s)", pr.Number, pr.URL)
}

func mention(login string) string {
	if login == "" {
		return ""
	}
	return " @" + login
}
