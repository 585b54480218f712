package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alimgiray/gchangelog/internal/models"
	"github.com/go-git/go-git/v5"
)

// OpenRepository resolves path to an absolute directory and opens the git repository in it.
// It returns the repository and the resolved directory.
func OpenRepository(path string) (*git.Repository, string, error) {
	dir, err := ResolveDirectory(path)
	if err != nil {
		return nil, "", err
	}

	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, "", &models.SetupError{Field: "repo_directory", Message: fmt.Sprintf("failed to open repository %s", dir), Err: err}
	}

	return repo, dir, nil
}

// ResolveDirectory makes path absolute, follows symlinks and checks it is a directory
func ResolveDirectory(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &models.SetupError{Field: "repo_directory", Message: "invalid repository path", Err: err}
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &models.SetupError{Field: "repo_directory", Message: "invalid repository path", Err: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &models.SetupError{Field: "repo_directory", Message: "invalid repository path", Err: err}
	}
	if !info.IsDir() {
		return "", &models.SetupError{Field: "repo_directory", Message: fmt.Sprintf("%s is not a directory", resolved)}
	}

	return resolved, nil
}

// RepoNameFromDirectory returns the final path component of a resolved repository directory
func RepoNameFromDirectory(dir string) string {
	return filepath.Base(filepath.Clean(dir))
}
