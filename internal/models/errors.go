package models

import "fmt"

// SetupError reports a problem that prevents a run from starting: a bad
// repository path, a repository that cannot be opened or a missing credential.
type SetupError struct {
	Field   string
	Message string
	Err     error
}

func (e *SetupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// ReferenceReadError is returned when repository references cannot be enumerated
type ReferenceReadError struct {
	Err error
}

func (e *ReferenceReadError) Error() string {
	return fmt.Sprintf("failed to read references: %v", e.Err)
}

func (e *ReferenceReadError) Unwrap() error {
	return e.Err
}

// RepositoryReadError is returned when HEAD or its commit cannot be read
type RepositoryReadError struct {
	Ref string
	Err error
}

func (e *RepositoryReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Ref, e.Err)
}

func (e *RepositoryReadError) Unwrap() error {
	return e.Err
}

// ConsistencyError signals that a pull request commit surfaced in the local
// history out of the order the GitHub API reported it.
type ConsistencyError struct {
	PullRequest int
	Expected    string
	Actual      string
}

func (e *ConsistencyError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("pull request #%d commit order mismatch: commit %s was not pending", e.PullRequest, e.Actual)
	}
	return fmt.Sprintf("pull request #%d commit order mismatch: expected %s, got %s", e.PullRequest, e.Expected, e.Actual)
}
