package database

import (
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/alimgiray/gchangelog/pkg/logger"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

var DB *sql.DB

// Init opens the SQLite database backing the per-run caches and prepares its schema.
// Cached rows never outlive a run: every table is emptied after the schema is applied.
func Init(dsn string) error {
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open opens a SQLite database, applies the embedded SQL scripts and clears cached rows
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", connectionString(dsn))
	if err != nil {
		return nil, err
	}

	// An in-memory database only lives as long as its connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Test the connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err = optimizeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}

	if err = RunSQLScripts(db); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec(`DELETE FROM author_cache`); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debugf("Cache database ready at %s", dsn)
	return db, nil
}

func connectionString(dsn string) string {
	if dsn == "" || dsn == ":memory:" {
		return "file::memory:?_busy_timeout=30000"
	}
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=30000"
}

// optimizeDatabase configures SQLite for a short-lived single-writer process
func optimizeDatabase(db *sql.DB) error {
	// Use memory for temp storage
	if _, err := db.Exec("PRAGMA temp_store=MEMORY"); err != nil {
		return err
	}

	// Set synchronous mode to NORMAL for better performance
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return err
	}

	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// RunSQLScripts executes the embedded SQL scripts in file name order
func RunSQLScripts(db *sql.DB) error {
	files, err := migrations.ReadDir("migrations")
	if err != nil {
		return err
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		if path.Ext(file.Name()) == ".sql" {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		sqlContent, err := migrations.ReadFile(path.Join("migrations", name))
		if err != nil {
			return err
		}

		if _, err = db.Exec(string(sqlContent)); err != nil {
			return err
		}

		logger.Debugf("Executed SQL script: %s", name)
	}

	return nil
}
