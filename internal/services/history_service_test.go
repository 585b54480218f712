package services

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alimgiray/gchangelog/internal/models"
	"github.com/alimgiray/gchangelog/internal/testutil"
	"github.com/alimgiray/gchangelog/pkg/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, it *CommitIter) []*models.Commit {
	t.Helper()
	var commits []*models.Commit
	for {
		c, err := it.Next()
		if errors.Is(err, io.EOF) {
			return commits
		}
		require.NoError(t, err)
		commits = append(commits, c)
	}
}

func messages(commits []*models.Commit) []string {
	out := make([]string, 0, len(commits))
	for _, c := range commits {
		out = append(out, c.Summary())
	}
	return out
}

// buildMergeHistory creates base -> main1 and base -> side1 -> side2, merged into merge.
// main1 is committed after side2 so time order and topological order differ.
func buildMergeHistory(t *testing.T) (*testutil.RepoBuilder, map[string]plumbing.Hash) {
	b := testutil.NewRepoBuilder(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	base := b.CommitAt("base", start, "Dev", "dev@example.com")
	side1 := b.CommitAt("side1", start.Add(1*time.Hour), "Dev", "dev@example.com", base)
	side2 := b.CommitAt("side2", start.Add(2*time.Hour), "Dev", "dev@example.com", side1)
	main1 := b.CommitAt("main1", start.Add(3*time.Hour), "Dev", "dev@example.com", base)
	merge := b.CommitAt("merge", start.Add(4*time.Hour), "Dev", "dev@example.com", main1, side2)
	b.SetHead(merge)

	return b, map[string]plumbing.Hash{
		"base": base, "side1": side1, "side2": side2, "main1": main1, "merge": merge,
	}
}

func TestWalkTopologicalOrder(t *testing.T) {
	b, hashes := buildMergeHistory(t)

	history, err := NewHistoryService(b.Repo, config.OrderTopological)
	require.NoError(t, err)
	it, err := history.Walk()
	require.NoError(t, err)

	commits := drain(t, it)
	assert.Equal(t, []string{"merge", "side2", "side1", "main1", "base"}, messages(commits))

	merge := commits[0]
	assert.True(t, merge.IsMerge())
	assert.Equal(t, []string{hashes["main1"].String(), hashes["side2"].String()}, merge.ParentIDs)
	assert.Equal(t, "dev@example.com", merge.AuthorEmail)
}

func TestWalkTimeOrder(t *testing.T) {
	b, _ := buildMergeHistory(t)

	history, err := NewHistoryService(b.Repo, config.OrderTime)
	require.NoError(t, err)
	it, err := history.Walk()
	require.NoError(t, err)

	assert.Equal(t, []string{"merge", "main1", "side2", "side1", "base"}, messages(drain(t, it)))
}

func TestWalkParentsFollowChildren(t *testing.T) {
	// A side branch commit with a timestamp older than its parent
	b := testutil.NewRepoBuilder(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	base := b.CommitAt("base", start.Add(10*time.Hour), "Dev", "dev@example.com")
	skewed := b.CommitAt("skewed", start, "Dev", "dev@example.com", base)
	b.SetHead(skewed)

	history, err := NewHistoryService(b.Repo, "")
	require.NoError(t, err)
	it, err := history.Walk()
	require.NoError(t, err)

	assert.Equal(t, []string{"skewed", "base"}, messages(drain(t, it)))
}

func TestWalkSkipsUnreadableCommits(t *testing.T) {
	b := testutil.NewRepoBuilder(t)
	missing := plumbing.NewHash("1111111111111111111111111111111111111111")
	c1 := b.Commit("grafted", missing)
	c2 := b.Commit("tip", c1)
	b.SetHead(c2)

	history, err := NewHistoryService(b.Repo, config.OrderTopological)
	require.NoError(t, err)
	it, err := history.Walk()
	require.NoError(t, err)

	assert.Equal(t, 2, it.Remaining())
	assert.Equal(t, []string{"tip", "grafted"}, messages(drain(t, it)))
	assert.Equal(t, 0, it.Remaining())
}

func TestWalkWithoutHead(t *testing.T) {
	b := testutil.NewRepoBuilder(t)

	history, err := NewHistoryService(b.Repo, config.OrderTopological)
	require.NoError(t, err)

	_, err = history.Walk()
	var readErr *models.RepositoryReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "HEAD", readErr.Ref)
}

func TestNewHistoryServiceRejectsUnknownOrder(t *testing.T) {
	b := testutil.NewRepoBuilder(t)

	_, err := NewHistoryService(b.Repo, "random")
	var setupErr *models.SetupError
	assert.ErrorAs(t, err, &setupErr)
}
