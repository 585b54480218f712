package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	OrderTopological = "topological"
	OrderTime        = "time"
)

type Config struct {
	GitHub    GitHubConfig
	Changelog ChangelogConfig
	Database  DatabaseConfig
	Log       LogConfig
}

type GitHubConfig struct {
	Token    string
	APIURL   string
	WebURL   string
	PageSize int
}

type ChangelogConfig struct {
	Order  string
	Strict bool
}

type DatabaseConfig struct {
	Path string
}

type LogConfig struct {
	Level  string
	Format string
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to read .env file: %v", err)
	}

	AppConfig = &Config{
		GitHub: GitHubConfig{
			Token:    getEnv("GITHUB_PERSONAL_ACCESS_TOKEN", ""),
			APIURL:   getEnv("GITHUB_API_URL", "https://api.github.com/"),
			WebURL:   strings.TrimRight(getEnv("GITHUB_WEB_URL", "https://github.com"), "/"),
			PageSize: getEnvAsInt("GITHUB_PAGE_SIZE", 100),
		},
		Changelog: ChangelogConfig{
			Order:  getEnv("CHANGELOG_ORDER", OrderTopological),
			Strict: getEnvAsBool("CHANGELOG_STRICT", false),
		},
		Database: DatabaseConfig{
			Path: getEnv("CHANGELOG_DB_PATH", ":memory:"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
