// Package config loads the bridge's settings from the environment.
//
// A .env file in the working directory is honored for local
// development; real deployments set variables directly in the MCP
// client's server config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/joho/godotenv"
)

// Config holds all environment-derived settings.
type Config struct {
	// Jira connection.
	JiraURL      string
	JiraEmail    string
	JiraAPIToken string

	// ConfigDir is where per-project field configurations persist,
	// one <PROJECT_KEY>.json per project.
	ConfigDir string

	// Zephyr test-management add-on. Optional — the Zephyr tools are
	// only registered when these are set.
	ZephyrBaseURL   string
	ZephyrAccessKey string
	ZephyrSecretKey string
	ZephyrAccountID string
}

// Load reads settings from the environment (and .env, if present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		JiraURL:         strings.TrimRight(os.Getenv("JIRA_URL"), "/"),
		JiraEmail:       os.Getenv("JIRA_EMAIL"),
		JiraAPIToken:    os.Getenv("JIRA_API_TOKEN"),
		ConfigDir:       os.Getenv("JIRA_CONFIG_DIR"),
		ZephyrBaseURL:   strings.TrimRight(os.Getenv("ZEPHYR_BASE_URL"), "/"),
		ZephyrAccessKey: os.Getenv("ZEPHYR_ACCESS_KEY"),
		ZephyrSecretKey: os.Getenv("ZEPHYR_SECRET_KEY"),
		ZephyrAccountID: os.Getenv("ZEPHYR_ACCOUNT_ID"),
	}

	if cfg.ConfigDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.ConfigDir = filepath.Join(home, ".jira-bridge", "projects")
	}

	return cfg, nil
}

// HasJira reports whether the Jira connection settings are complete.
func (c *Config) HasJira() bool {
	return c.JiraURL != "" && c.JiraEmail != "" && c.JiraAPIToken != ""
}

// HasZephyr reports whether the Zephyr add-on settings are complete.
func (c *Config) HasZephyr() bool {
	return c.ZephyrBaseURL != "" && c.ZephyrAccessKey != "" &&
		c.ZephyrSecretKey != "" && c.ZephyrAccountID != ""
}

// FieldEnvVar derives the environment override variable for a semantic
// field name: "storyPoints" → "JIRA_STORY_POINTS_FIELD". Overrides let
// operations run before any project has been configured.
func FieldEnvVar(fieldName string) string {
	var sb strings.Builder
	sb.WriteString("JIRA_")
	for i, r := range fieldName {
		if unicode.IsUpper(r) && i > 0 {
			sb.WriteByte('_')
		}
		sb.WriteRune(unicode.ToUpper(r))
	}
	sb.WriteString("_FIELD")
	return sb.String()
}
