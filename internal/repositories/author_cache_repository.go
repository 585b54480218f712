package repositories

import (
	"database/sql"
	"errors"
	"time"

	"github.com/alimgiray/gchangelog/internal/models"
)

type AuthorCacheRepository struct {
	db *sql.DB
}

func NewAuthorCacheRepository(db *sql.DB) *AuthorCacheRepository {
	return &AuthorCacheRepository{db: db}
}

// GetByEmail returns the cached author for an email, or nil when nothing is cached
func (r *AuthorCacheRepository) GetByEmail(email string) (*models.CachedAuthor, error) {
	query := `SELECT email, login, profile_url, created_at FROM author_cache WHERE email = ?`

	var cached models.CachedAuthor
	err := r.db.QueryRow(query, email).Scan(
		&cached.Email, &cached.Author.Login, &cached.Author.ProfileURL, &cached.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &cached, nil
}

// Upsert stores or replaces the author cached for an email
func (r *AuthorCacheRepository) Upsert(email string, author *models.Author) error {
	query := `
		INSERT INTO author_cache (email, login, profile_url, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			login = excluded.login,
			profile_url = excluded.profile_url
	`

	_, err := r.db.Exec(query, email, author.Login, author.ProfileURL, time.Now())
	return err
}

// Count returns the number of cached authors
func (r *AuthorCacheRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM author_cache`).Scan(&count)
	return count, err
}
