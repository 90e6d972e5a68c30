// Package projects persists per-project field configuration: the
// resolved semantic-name → field-id mapping table plus a snapshot of the
// instance's field catalog, one JSON document per project key.
package projects

import (
	"fmt"
	"time"

	"github.com/HendryAvila/jira-bridge/internal/jira"
)

// FieldMapping is a resolved semantic binding: which Jira field id a
// semantic field name points at, captured with the display name, schema
// type, and discovery confidence at resolution time.
type FieldMapping struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Confidence int    `json:"confidence"`
}

// ProjectConfig is the persisted record for one Jira project.
//
// Every Fields[name].ID should also appear as a key in FieldCache, but
// this is best-effort: the cache is a catalog snapshot, not an owning
// relation, and is not enforced at write time. LastUpdated is for
// display and audit only, never conflict resolution.
type ProjectConfig struct {
	ProjectKey  string                  `json:"projectKey"`
	Fields      map[string]FieldMapping `json:"fields"`
	FieldCache  map[string]jira.Field   `json:"fieldCache"`
	LastUpdated time.Time               `json:"lastUpdated"`
}

// NewProjectConfig creates an empty config for a project key.
func NewProjectConfig(projectKey string) *ProjectConfig {
	return &ProjectConfig{
		ProjectKey: projectKey,
		Fields:     make(map[string]FieldMapping),
		FieldCache: make(map[string]jira.Field),
	}
}

// Clone deep-copies the config. Used by Copy so the source and target
// never share maps.
func (c *ProjectConfig) Clone() *ProjectConfig {
	clone := &ProjectConfig{
		ProjectKey:  c.ProjectKey,
		Fields:      make(map[string]FieldMapping, len(c.Fields)),
		FieldCache:  make(map[string]jira.Field, len(c.FieldCache)),
		LastUpdated: c.LastUpdated,
	}
	for name, mapping := range c.Fields {
		clone.Fields[name] = mapping
	}
	for id, field := range c.FieldCache {
		clone.FieldCache[id] = field
	}
	return clone
}

// Summary is the display projection returned by Store.List.
type Summary struct {
	ProjectKey  string    `json:"projectKey"`
	LastUpdated time.Time `json:"lastUpdated"`
	FieldCount  int       `json:"fieldCount"`
	FieldNames  []string  `json:"fieldNames"`
}

// ErrorCode is a machine-readable configuration error code.
type ErrorCode string

const (
	// ErrProjectNotConfigured means no ProjectConfig exists for the key.
	ErrProjectNotConfigured ErrorCode = "PROJECT_NOT_CONFIGURED"
	// ErrFieldNotConfigured means the project exists but lacks the field.
	ErrFieldNotConfigured ErrorCode = "FIELD_NOT_CONFIGURED"
)

// ConfigError is the typed "needs configuration" error. Call sites use
// it to distinguish recoverable configuration gaps from generic failures
// and to batch several gaps into one actionable message.
type ConfigError struct {
	Code    ErrorCode
	Project string
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func projectNotConfigured(projectKey string) *ConfigError {
	return &ConfigError{
		Code:    ErrProjectNotConfigured,
		Project: projectKey,
		Message: fmt.Sprintf("project %s has no field configuration — run jira_configure_project_fields first", projectKey),
	}
}

func fieldNotConfigured(projectKey, fieldName string) *ConfigError {
	return &ConfigError{
		Code:    ErrFieldNotConfigured,
		Project: projectKey,
		Field:   fieldName,
		Message: fmt.Sprintf("field %q is not configured for project %s", fieldName, projectKey),
	}
}
