package projects

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/HendryAvila/jira-bridge/internal/logging"
)

// lookupEnv is a package-level var to allow test injection.
var lookupEnv = os.LookupEnv

// Store is a cache-backed file store of ProjectConfig by project key,
// one <PROJECT_KEY>.json per config in a configurable directory.
//
// The store owns its own state explicitly — construct one per process
// and pass it to everything that needs configuration access. It holds
// no locks: overlapping writes to the same project key race at the
// filesystem level, last writer wins. Acceptable for the expected
// single-operator usage; callers must not share a Store across
// concurrent writers for the same project.
type Store struct {
	dir    string
	loaded bool
	cache  map[string]*ProjectConfig
}

// NewStore creates a store rooted at dir. The directory is created
// lazily on first write.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: make(map[string]*ProjectConfig),
	}
}

// Dir returns the directory the store persists into.
func (s *Store) Dir() string {
	return s.dir
}

// ClearCache discards the in-memory cache so the next read rescans the
// directory.
func (s *Store) ClearCache() {
	s.loaded = false
	s.cache = make(map[string]*ProjectConfig)
}

// load scans the config directory once per process (until ClearCache).
// Entries that fail to parse are logged and skipped — one corrupt file
// must not take down every project's configuration.
func (s *Store) load() error {
	if s.loaded {
		return nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return fmt.Errorf("reading config directory %s: %w", s.dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logging.Warn("skipping unreadable config %s: %v", path, err)
			continue
		}
		var cfg ProjectConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			logging.Warn("skipping unparsable config %s: %v", path, err)
			continue
		}
		if cfg.ProjectKey == "" {
			cfg.ProjectKey = strings.TrimSuffix(entry.Name(), ".json")
		}
		s.cache[cfg.ProjectKey] = &cfg
	}

	s.loaded = true
	return nil
}

// Get returns the config for a project key, or nil when none exists.
func (s *Store) Get(projectKey string) (*ProjectConfig, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return s.cache[projectKey], nil
}

// Save stamps LastUpdated, persists the config under its project key,
// and updates the in-memory cache so subsequent reads in this process
// see the write without a reload.
func (s *Store) Save(cfg *ProjectConfig) error {
	if err := s.load(); err != nil {
		return err
	}
	if cfg.ProjectKey == "" {
		return fmt.Errorf("project key is required")
	}

	cfg.LastUpdated = time.Now().UTC()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", s.dir, err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config for %s: %w", cfg.ProjectKey, err)
	}
	path := filepath.Join(s.dir, cfg.ProjectKey+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config for %s: %w", cfg.ProjectKey, err)
	}

	s.cache[cfg.ProjectKey] = cfg
	return nil
}

// GetFieldMapping returns the field id configured for a semantic field
// name. It fails with a typed *ConfigError when the project or the
// field is not configured.
func (s *Store) GetFieldMapping(projectKey, fieldName string) (string, error) {
	cfg, err := s.Get(projectKey)
	if err != nil {
		return "", err
	}
	if cfg == nil {
		return "", projectNotConfigured(projectKey)
	}
	mapping, ok := cfg.Fields[fieldName]
	if !ok {
		return "", fieldNotConfigured(projectKey, fieldName)
	}
	return mapping.ID, nil
}

// GetFieldMappingWithFallback is GetFieldMapping, but configuration
// gaps fall back to an environment override variable instead of
// erroring. Returns "" when both are absent — deliberately best-effort
// so ticket operations stay usable before any project is configured.
// Store I/O failures still surface as errors.
func (s *Store) GetFieldMappingWithFallback(projectKey, fieldName, fallbackEnv string) (string, error) {
	id, err := s.GetFieldMapping(projectKey, fieldName)
	if err != nil {
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			return "", err
		}
		if fallbackEnv != "" {
			if v, ok := lookupEnv(fallbackEnv); ok && v != "" {
				return v, nil
			}
		}
		return "", nil
	}
	return id, nil
}

// Copy deep-copies the source project's config, rewrites its project
// key, and persists it under the target key. Fails when the source is
// unconfigured. Overwrite protection for an existing target is the
// caller's concern, not the store's.
func (s *Store) Copy(sourceKey, targetKey string) (*ProjectConfig, error) {
	src, err := s.Get(sourceKey)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, projectNotConfigured(sourceKey)
	}

	target := src.Clone()
	target.ProjectKey = targetKey
	if err := s.Save(target); err != nil {
		return nil, err
	}
	return target, nil
}

// List returns a display summary for every known project, sorted by
// project key.
func (s *Store) List() ([]Summary, error) {
	if err := s.load(); err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(s.cache))
	for key, cfg := range s.cache {
		names := make([]string, 0, len(cfg.Fields))
		for name := range cfg.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		summaries = append(summaries, Summary{
			ProjectKey:  key,
			LastUpdated: cfg.LastUpdated,
			FieldCount:  len(cfg.Fields),
			FieldNames:  names,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ProjectKey < summaries[j].ProjectKey
	})
	return summaries, nil
}
