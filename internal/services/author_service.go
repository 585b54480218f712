package services

import (
	"context"

	"github.com/alimgiray/gchangelog/internal/models"
	"github.com/alimgiray/gchangelog/internal/repositories"
	"github.com/alimgiray/gchangelog/pkg/logger"
)

// AuthorService attributes commits to GitHub accounts
type AuthorService struct {
	api   CommitsAPI
	cache *repositories.AuthorCacheRepository
	owner string
	repo  string
}

// NewAuthorService creates an author resolver. cache may be nil to always ask GitHub.
func NewAuthorService(api CommitsAPI, cache *repositories.AuthorCacheRepository, owner, repo string) *AuthorService {
	return &AuthorService{
		api:   api,
		cache: cache,
		owner: owner,
		repo:  repo,
	}
}

// ResolveAuthor returns the GitHub account of a commit, or nil when the commit has
// none or GitHub cannot be reached. Successful lookups are cached by author email
// for the rest of the run, so later commits by the same person skip the API call.
func (s *AuthorService) ResolveAuthor(ctx context.Context, commit *models.Commit) *models.Author {
	log := logger.WithField("commit", commit.ID)

	if s.cache != nil && commit.AuthorEmail != "" {
		cached, err := s.cache.GetByEmail(commit.AuthorEmail)
		if err != nil {
			log.WithError(err).Warn("Failed to read author cache")
		} else if cached != nil {
			log.Debugf("Author cache hit for %s", commit.AuthorEmail)
			author := cached.Author
			return &author
		}
	}

	remote, _, err := s.api.GetCommit(ctx, s.owner, s.repo, commit.ID, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch commit author")
		return nil
	}
	if remote.GetAuthor().GetLogin() == "" {
		log.Debug("Commit has no associated GitHub account")
		return nil
	}

	author := &models.Author{
		Login:      remote.GetAuthor().GetLogin(),
		ProfileURL: remote.GetAuthor().GetHTMLURL(),
	}

	if s.cache != nil && commit.AuthorEmail != "" {
		if err := s.cache.Upsert(commit.AuthorEmail, author); err != nil {
			log.WithError(err).Warn("Failed to cache commit author")
		}
	}

	return author
}
