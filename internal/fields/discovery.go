package fields

import (
	"context"
	"fmt"

	"github.com/HendryAvila/jira-bridge/internal/jira"
	"github.com/HendryAvila/jira-bridge/internal/logging"
	"github.com/HendryAvila/jira-bridge/internal/projects"
)

// Discovery tuning. The acceptance threshold and sample bonus are design
// parameters, not derived values — adjust with care and keep the tests
// in sync.
const (
	// AcceptThreshold is the minimum confidence at which a discovered
	// candidate is accepted. Below it, the field stays unresolved and
	// must be configured manually.
	AcceptThreshold = 70

	// SampleUsageBonus is added to a candidate whose field id holds a
	// value on the sampled issue.
	SampleUsageBonus = 15

	// Exploratory-mode confidences: fields seen on the sample issue vs
	// the rest of the catalog.
	exploratoryInUseConfidence   = 90
	exploratoryDefaultConfidence = 50
)

// CatalogSource supplies the field catalog and sample issues during
// discovery. *jira.Client satisfies it; tests use fakes.
type CatalogSource interface {
	ListFields(ctx context.Context) ([]jira.Field, error)
	GetIssue(ctx context.Context, issueKey string) (*jira.Issue, error)
}

// DiscoverOptions controls one discovery pass.
type DiscoverOptions struct {
	ProjectKey string
	// SampleIssueKey, when set, names a real issue whose populated
	// fields boost candidate confidence.
	SampleIssueKey string
	// FieldNames is the list of semantic names to resolve. Empty means
	// exploratory mode: return every catalog field under a normalized
	// key so a human or LLM can hand-pick associations.
	FieldNames []string
}

// DiscoverResult is the outcome of one discovery pass. Unresolved lists
// requested names that produced no acceptable candidate; they are
// absent from Mappings.
type DiscoverResult struct {
	Mappings   map[string]projects.FieldMapping
	Unresolved []string
	// Catalog is the full field list fetched for this pass, kept so the
	// caller can persist it as the project's field cache.
	Catalog []jira.Field
}

// Discoverer resolves semantic field names against a Jira instance.
type Discoverer struct {
	source CatalogSource
}

// NewDiscoverer creates a Discoverer backed by the given source.
func NewDiscoverer(source CatalogSource) *Discoverer {
	return &Discoverer{source: source}
}

// Discover runs one discovery pass. A catalog fetch failure aborts the
// whole pass; a sample issue fetch failure only disables the usage
// bonus. Nothing is persisted here — the caller saves the project
// config once the pass has fully succeeded.
func (d *Discoverer) Discover(ctx context.Context, opts DiscoverOptions) (*DiscoverResult, error) {
	catalog, err := d.source.ListFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching field catalog: %w", err)
	}

	inUse := map[string]bool{}
	if opts.SampleIssueKey != "" {
		issue, err := d.source.GetIssue(ctx, opts.SampleIssueKey)
		if err != nil {
			logging.Warn("sample issue %s unavailable, discovering without usage signal: %v",
				opts.SampleIssueKey, err)
		} else {
			inUse = issue.FieldsInUse()
		}
	}

	result := &DiscoverResult{
		Mappings: make(map[string]projects.FieldMapping),
		Catalog:  catalog,
	}

	if len(opts.FieldNames) == 0 {
		d.discoverAll(catalog, inUse, result)
		return result, nil
	}

	for _, name := range opts.FieldNames {
		mapping, ok := d.discoverOne(name, catalog, inUse)
		if !ok {
			result.Unresolved = append(result.Unresolved, name)
			continue
		}
		result.Mappings[name] = mapping
	}
	return result, nil
}

// discoverOne resolves a single semantic name: score the catalog, boost
// candidates present on the sample issue, and accept the top candidate
// only at or above the threshold. A low-confidence top candidate is
// never auto-accepted.
func (d *Discoverer) discoverOne(name string, catalog []jira.Field, inUse map[string]bool) (projects.FieldMapping, bool) {
	matches := MatchField(name, catalog)
	if len(inUse) > 0 {
		matches = applySampleBonus(matches, inUse)
	}
	if len(matches) == 0 {
		return projects.FieldMapping{}, false
	}

	best := matches[0]
	if best.Confidence < AcceptThreshold {
		logging.Info("field %q: best candidate %q at confidence %d is below threshold %d, leaving unresolved",
			name, best.Field.Name, best.Confidence, AcceptThreshold)
		return projects.FieldMapping{}, false
	}
	return toMapping(best.Field, best.Confidence), true
}

// discoverAll implements exploratory mode: every catalog field keyed by
// its normalized display name. It intentionally bypasses the match
// scorer — confidence only reflects whether the sample issue uses the
// field. Display names are not unique, so colliding keys get the field
// id appended — every catalog field keeps its own entry.
func (d *Discoverer) discoverAll(catalog []jira.Field, inUse map[string]bool, result *DiscoverResult) {
	for _, field := range catalog {
		confidence := exploratoryDefaultConfidence
		if inUse[field.ID] {
			confidence = exploratoryInUseConfidence
		}
		key := NormalizeFieldName(field.Name)
		if key == "" {
			continue
		}
		if _, taken := result.Mappings[key]; taken {
			key = key + "_" + NormalizeFieldName(field.ID)
		}
		result.Mappings[key] = toMapping(field, confidence)
	}
}

// applySampleBonus adds the flat usage bonus to candidates populated on
// the sample issue and re-sorts. Confidence stays clamped to 100.
func applySampleBonus(matches []Match, inUse map[string]bool) []Match {
	boosted := make([]Match, len(matches))
	copy(boosted, matches)
	for i := range boosted {
		if !inUse[boosted[i].Field.ID] {
			continue
		}
		boosted[i].Confidence += SampleUsageBonus
		if boosted[i].Confidence > maxConfidence {
			boosted[i].Confidence = maxConfidence
		}
	}
	sortMatches(boosted)
	return boosted
}

func toMapping(field jira.Field, confidence int) projects.FieldMapping {
	fieldType := field.SchemaType()
	if fieldType == "" {
		fieldType = "string"
	}
	return projects.FieldMapping{
		ID:         field.ID,
		Name:       field.Name,
		Type:       fieldType,
		Confidence: confidence,
	}
}
