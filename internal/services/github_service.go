package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// PullRequestsAPI is the part of the GitHub pull request API the changelog uses.
// *github.PullRequestsService satisfies it.
type PullRequestsAPI interface {
	ListPullRequestsWithCommit(ctx context.Context, owner, repo, sha string, opts *github.ListOptions) ([]*github.PullRequest, *github.Response, error)
	ListCommits(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.RepositoryCommit, *github.Response, error)
}

// CommitsAPI is the part of the GitHub repositories API the changelog uses.
// *github.RepositoriesService satisfies it.
type CommitsAPI interface {
	GetCommit(ctx context.Context, owner, repo, sha string, opts *github.ListOptions) (*github.RepositoryCommit, *github.Response, error)
}

// NewGitHubClient creates a GitHub client authenticated with token.
// apiURL overrides the REST base, e.g. for GitHub Enterprise; empty keeps github.com.
func NewGitHubClient(ctx context.Context, token, apiURL string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		base, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}
		client.BaseURL = base
	}

	return client, nil
}

// CommitURLBase returns the prefix commit links are built from
func CommitURLBase(webURL, owner, repo string) string {
	return fmt.Sprintf("%s/%s/%s/commit", strings.TrimRight(webURL, "/"), owner, repo)
}
