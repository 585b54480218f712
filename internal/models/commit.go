package models

import (
	"strings"
	"time"
)

// NoDescription is rendered in place of an empty commit message or PR title
const NoDescription = "<No description>"

const shortIDLength = 7

// Commit represents a Git commit read from the local repository
type Commit struct {
	ID          string   `json:"id"`
	ParentIDs   []string `json:"parent_ids"`
	AuthorName  string   `json:"author_name"`
	AuthorEmail string   `json:"author_email"`
	Message     string   `json:"message"`
	Timestamp   int64    `json:"timestamp"`
}

// NewCommit creates a new Commit
func NewCommit(id string, parentIDs []string, authorName, authorEmail, message string, when time.Time) *Commit {
	return &Commit{
		ID:          id,
		ParentIDs:   parentIDs,
		AuthorName:  authorName,
		AuthorEmail: authorEmail,
		Message:     message,
		Timestamp:   when.Unix(),
	}
}

// IsMerge reports whether the commit has two or more parents
func (c *Commit) IsMerge() bool {
	return len(c.ParentIDs) > 1
}

// Summary returns the first line of the commit message
func (c *Commit) Summary() string {
	return Summary(c.Message)
}

// ShortID returns the abbreviated commit hash
func (c *Commit) ShortID() string {
	return ShortID(c.ID)
}

// Date returns the commit date formatted as YYYY-MM-DD in UTC
func (c *Commit) Date() string {
	return time.Unix(c.Timestamp, 0).UTC().Format("2006-01-02")
}

// Summary returns the first line of message, or NoDescription when it is empty
func Summary(message string) string {
	if message == "" {
		return NoDescription
	}
	if pos := strings.IndexByte(message, '\n'); pos >= 0 {
		message = message[:pos]
	}
	return strings.TrimRight(message, "\r")
}

// ShortID abbreviates a commit hash
func ShortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}
