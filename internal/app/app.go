// Package app wires the repository, GitHub and cache layers into one changelog run.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/alimgiray/gchangelog/internal/models"
	"github.com/alimgiray/gchangelog/internal/repositories"
	"github.com/alimgiray/gchangelog/internal/services"
	"github.com/alimgiray/gchangelog/pkg/config"
	"github.com/alimgiray/gchangelog/pkg/database"
	"github.com/alimgiray/gchangelog/pkg/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Options are the per-invocation inputs
type Options struct {
	RepoPath string
	Owner    string
	// RepoName defaults to the final component of the repository directory
	RepoName string
	Order    string
	Strict   bool
	Output   io.Writer
}

// Run generates the changelog for opts and writes it to opts.Output
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	logger.SetField("run_id", uuid.New().String())

	if cfg.GitHub.Token == "" {
		return &models.SetupError{Field: "GITHUB_PERSONAL_ACCESS_TOKEN", Message: "No GITHUB_PERSONAL_ACCESS_TOKEN"}
	}
	if opts.Owner == "" {
		return &models.SetupError{Field: "repo_owner", Message: "repository owner is required"}
	}

	repo, dir, err := services.OpenRepository(opts.RepoPath)
	if err != nil {
		return err
	}

	repoName := opts.RepoName
	if repoName == "" {
		repoName = services.RepoNameFromDirectory(dir)
	}

	history, err := services.NewHistoryService(repo, opts.Order)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"directory": dir,
		"owner":     opts.Owner,
		"repo":      repoName,
		"order":     opts.Order,
		"strict":    opts.Strict,
	}).Info("Generating changelog")

	if err := database.Init(cfg.Database.Path); err != nil {
		return fmt.Errorf("failed to initialize author cache: %w", err)
	}
	defer database.Close()

	tags, err := services.NewTagIndexService(repo).Build()
	if err != nil {
		return err
	}

	commits, err := history.Walk()
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"commits": commits.Remaining(),
		"tags":    len(tags),
	}).Info("History loaded")

	client, err := services.NewGitHubClient(ctx, cfg.GitHub.Token, cfg.GitHub.APIURL)
	if err != nil {
		return &models.SetupError{Field: "GITHUB_API_URL", Message: "invalid GitHub API URL", Err: err}
	}

	pullRequests := services.NewPullRequestService(client.PullRequests, opts.Owner, repoName, cfg.GitHub.PageSize)
	authors := services.NewAuthorService(client.Repositories, repositories.NewAuthorCacheRepository(database.DB), opts.Owner, repoName)
	changelog := services.NewChangelogService(
		pullRequests,
		authors,
		services.CommitURLBase(cfg.GitHub.WebURL, opts.Owner, repoName),
		opts.Strict,
	)

	text, err := changelog.Generate(ctx, commits, tags)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(opts.Output, text); err != nil {
		return fmt.Errorf("failed to write changelog: %w", err)
	}
	return nil
}
