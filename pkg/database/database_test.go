package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInMemory(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM author_cache`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestOpenClearsPreviousRun(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "cache.db")

	db, err := Open(dsn)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO author_cache (email, login) VALUES (?, ?)`, "dev@example.com", "dev")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(dsn)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM author_cache`).Scan(&count))
	assert.Equal(t, 0, count, "cached authors must not survive into the next run")
}

func TestInitAndClose(t *testing.T) {
	require.NoError(t, Init(""))
	assert.NotNil(t, DB)
	assert.NoError(t, Close())
}
