package services

import (
	"context"

	"github.com/alimgiray/gchangelog/internal/models"
	"github.com/alimgiray/gchangelog/pkg/logger"
	"github.com/google/go-github/v57/github"
	"github.com/sirupsen/logrus"
)

// PullRequestService resolves merge commits to the pull requests that produced them
type PullRequestService struct {
	api      PullRequestsAPI
	owner    string
	repo     string
	pageSize int
}

func NewPullRequestService(api PullRequestsAPI, owner, repo string, pageSize int) *PullRequestService {
	return &PullRequestService{
		api:      api,
		owner:    owner,
		repo:     repo,
		pageSize: pageSize,
	}
}

// ResolveMergeCommit returns the pull request associated with a merge commit, or nil.
// When GitHub reports several pull requests the first one wins. Lookup failures
// are logged and treated as "no pull request".
func (s *PullRequestService) ResolveMergeCommit(ctx context.Context, commitID string) *models.PullRequest {
	log := logger.WithFields(logrus.Fields{"commit": commitID, "owner": s.owner, "repo": s.repo})

	prs, _, err := s.api.ListPullRequestsWithCommit(ctx, s.owner, s.repo, commitID, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to list pull requests for merge commit")
		return nil
	}
	if len(prs) == 0 {
		log.Debug("No pull request found for merge commit")
		return nil
	}

	if len(prs) > 1 {
		numbers := make([]int, 0, len(prs))
		for _, pr := range prs {
			numbers = append(numbers, pr.GetNumber())
		}
		log.WithField("candidates", numbers).Warn("Several pull requests match merge commit, using the first")
	}

	first := prs[0]
	return &models.PullRequest{
		Number:        first.GetNumber(),
		Title:         first.GetTitle(),
		URL:           first.GetHTMLURL(),
		AuthorLogin:   first.GetUser().GetLogin(),
		MergeCommitID: commitID,
	}
}

// ListPullRequestCommits returns the commits of a pull request, newest first.
// Only a single page is requested; larger pull requests are truncated.
func (s *PullRequestService) ListPullRequestCommits(ctx context.Context, pr *models.PullRequest) []*models.PullRequestCommit {
	log := logger.WithFields(logrus.Fields{"pull_request": pr.Number, "owner": s.owner, "repo": s.repo})

	opts := &github.ListOptions{PerPage: s.pageSize}
	commits, resp, err := s.api.ListCommits(ctx, s.owner, s.repo, pr.Number, opts)
	if err != nil {
		log.WithError(err).Warn("Failed to list pull request commits")
		return nil
	}
	if resp != nil && resp.NextPage != 0 {
		log.WithField("fetched", len(commits)).Warn("Pull request has more commits than one page, list is truncated")
	}

	// GitHub lists oldest first
	result := make([]*models.PullRequestCommit, 0, len(commits))
	for i := len(commits) - 1; i >= 0; i-- {
		c := commits[i]
		result = append(result, &models.PullRequestCommit{
			ID:          c.GetSHA(),
			Message:     c.GetCommit().GetMessage(),
			AuthorLogin: c.GetAuthor().GetLogin(),
		})
	}

	return result
}
