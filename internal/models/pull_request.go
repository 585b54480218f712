package models

// PullRequest represents the GitHub pull request that produced a merge commit
type PullRequest struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	AuthorLogin string `json:"author_login"`
	// MergeCommitID is the local merge commit the pull request was looked up by
	MergeCommitID string `json:"merge_commit_id"`
}

// DisplayTitle returns the title or NoDescription when the title is empty
func (pr *PullRequest) DisplayTitle() string {
	if pr.Title == "" {
		return NoDescription
	}
	return pr.Title
}

// PullRequestCommit is a commit as reported by the GitHub API for a pull request
type PullRequestCommit struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	AuthorLogin string `json:"author_login"`
}

// Summary returns the first line of the commit message
func (c *PullRequestCommit) Summary() string {
	return Summary(c.Message)
}
