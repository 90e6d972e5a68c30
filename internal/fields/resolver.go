package fields

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/HendryAvila/jira-bridge/internal/projects"
)

// lookupEnv is a package-level var to allow test injection.
var lookupEnv = os.LookupEnv

// Resolver is the per-invocation facade for turning semantic field
// names into Jira field ids. Individual resolutions never fail
// mid-batch: a field that resolves through neither the persisted
// mapping nor its environment override is recorded, and the caller
// checks Err once after resolving everything it needs — so a user with
// three missing fields gets one consolidated message, not three runs.
//
// A Resolver is scoped to one tool invocation and is not safe for
// concurrent use.
type Resolver struct {
	store      *projects.Store
	projectKey string
	unresolved map[string]*projects.ConfigError
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store *projects.Store) *Resolver {
	return &Resolver{
		store:      store,
		unresolved: make(map[string]*projects.ConfigError),
	}
}

// Bind sets the project key for subsequent resolutions.
func (r *Resolver) Bind(projectKey string) {
	r.projectKey = projectKey
}

// Resolve returns the field id for a semantic field name, or "" when it
// cannot be resolved. With no project bound, only the environment
// override is consulted. Unresolvable fields are accumulated for Err.
func (r *Resolver) Resolve(fieldName, fallbackEnv string) string {
	if r.projectKey == "" {
		if id := envOverride(fallbackEnv); id != "" {
			return id
		}
		r.unresolved[fieldName] = &projects.ConfigError{
			Code:    projects.ErrProjectNotConfigured,
			Field:   fieldName,
			Message: fmt.Sprintf("no project bound and %s is unset", fallbackEnv),
		}
		return ""
	}

	id, err := r.store.GetFieldMappingWithFallback(r.projectKey, fieldName, fallbackEnv)
	if err != nil {
		// Store I/O failure, not a configuration gap. Still deferred so
		// the batch report stays consolidated.
		r.unresolved[fieldName] = &projects.ConfigError{
			Code:    projects.ErrFieldNotConfigured,
			Project: r.projectKey,
			Field:   fieldName,
			Message: err.Error(),
		}
		return ""
	}
	if id == "" {
		r.unresolved[fieldName] = &projects.ConfigError{
			Code:    projects.ErrFieldNotConfigured,
			Project: r.projectKey,
			Field:   fieldName,
			Message: fmt.Sprintf("not configured for %s and %s is unset", r.projectKey, fallbackEnv),
		}
		return ""
	}
	return id
}

// Unresolved returns the semantic names that failed to resolve, sorted.
func (r *Resolver) Unresolved() []string {
	names := make([]string, 0, len(r.unresolved))
	for name := range r.unresolved {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Err returns one consolidated, actionable error naming every
// unresolved field, or nil when everything resolved.
func (r *Resolver) Err() error {
	if len(r.unresolved) == 0 {
		return nil
	}
	names := r.Unresolved()
	var sb strings.Builder
	fmt.Fprintf(&sb, "unresolved field mappings: %s.", strings.Join(names, ", "))
	if r.projectKey != "" {
		fmt.Fprintf(&sb, " Run jira_configure_project_fields for project %s", r.projectKey)
		fmt.Fprintf(&sb, " (fields_to_discover: %s)", strings.Join(names, ", "))
		sb.WriteString(" or set the corresponding environment overrides.")
	} else {
		sb.WriteString(" Provide a project_key or set the corresponding environment overrides.")
	}
	return fmt.Errorf("%s", sb.String())
}

// Reset clears the accumulated errors, keeping the bound project.
func (r *Resolver) Reset() {
	r.unresolved = make(map[string]*projects.ConfigError)
}

func envOverride(name string) string {
	if name == "" {
		return ""
	}
	v, _ := lookupEnv(name)
	return v
}
