package models

import (
	"time"
)

// Author is the GitHub account a commit is attributed to
type Author struct {
	Login      string `json:"login" db:"login"`
	ProfileURL string `json:"profile_url" db:"profile_url"`
}

// CachedAuthor is an email to account association held for the duration of one run
type CachedAuthor struct {
	Email     string    `json:"email" db:"email"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
