package fields

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/HendryAvila/jira-bridge/internal/jira"
)

// fakeSource serves a canned catalog and sample issue.
type fakeSource struct {
	catalog    []jira.Field
	catalogErr error
	issue      *jira.Issue
	issueErr   error
}

func (f *fakeSource) ListFields(ctx context.Context) ([]jira.Field, error) {
	return f.catalog, f.catalogErr
}

func (f *fakeSource) GetIssue(ctx context.Context, issueKey string) (*jira.Issue, error) {
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	return f.issue, nil
}

func issueWithFields(fields map[string]string) *jira.Issue {
	raw := make(map[string]json.RawMessage, len(fields))
	for id, val := range fields {
		raw[id] = json.RawMessage(val)
	}
	return &jira.Issue{Key: "DEMO-1", Fields: raw}
}

func TestDiscover_AcceptsAtThreshold(t *testing.T) {
	// Clause-name match scores exactly 70 — the threshold is inclusive.
	source := &fakeSource{catalog: []jira.Field{
		{ID: "customfield_10016", Name: "Punkte", ClauseNames: []string{"storypoints"}},
	}}

	result, err := NewDiscoverer(source).Discover(context.Background(), DiscoverOptions{
		ProjectKey: "DEMO",
		FieldNames: []string{"storypoints"},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	mapping, ok := result.Mappings["storypoints"]
	if !ok {
		t.Fatalf("storypoints not resolved; unresolved=%v", result.Unresolved)
	}
	if mapping.ID != "customfield_10016" {
		t.Errorf("mapped id = %s, want customfield_10016", mapping.ID)
	}
	if mapping.Confidence != AcceptThreshold {
		t.Errorf("confidence = %d, want %d", mapping.Confidence, AcceptThreshold)
	}
	if len(result.Unresolved) != 0 {
		t.Errorf("unresolved = %v, want empty", result.Unresolved)
	}
}

func TestDiscover_RejectsBelowThreshold(t *testing.T) {
	// Fuzzy match "storypoint" vs "storypoints" lands at 55, below the
	// 70 threshold: no auto-accept, name goes to Unresolved.
	source := &fakeSource{catalog: []jira.Field{
		{ID: "f1", Name: "storypoint"},
	}}

	result, err := NewDiscoverer(source).Discover(context.Background(), DiscoverOptions{
		ProjectKey: "DEMO",
		FieldNames: []string{"storypoints"},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if _, ok := result.Mappings["storypoints"]; ok {
		t.Error("low-confidence candidate was accepted")
	}
	if len(result.Unresolved) != 1 || result.Unresolved[0] != "storypoints" {
		t.Errorf("unresolved = %v, want [storypoints]", result.Unresolved)
	}
}

func TestDiscover_SampleBonusLiftsOverThreshold(t *testing.T) {
	// 55 fuzzy + 15 sample usage bonus = 70, exactly at threshold.
	source := &fakeSource{
		catalog: []jira.Field{{ID: "f1", Name: "storypoint"}},
		issue:   issueWithFields(map[string]string{"f1": "8"}),
	}

	result, err := NewDiscoverer(source).Discover(context.Background(), DiscoverOptions{
		ProjectKey:     "DEMO",
		SampleIssueKey: "DEMO-1",
		FieldNames:     []string{"storypoints"},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	mapping, ok := result.Mappings["storypoints"]
	if !ok {
		t.Fatalf("boosted candidate not accepted; unresolved=%v", result.Unresolved)
	}
	if mapping.Confidence != 70 {
		t.Errorf("confidence = %d, want 70 (55 + 15 bonus)", mapping.Confidence)
	}
}

func TestDiscover_SampleBonusReordersCandidates(t *testing.T) {
	// Two pattern-rule ties at 80; the one in use on the sample issue
	// wins after the bonus.
	source := &fakeSource{
		catalog: []jira.Field{
			{ID: "f1", Name: "Story Points"},
			{ID: "f2", Name: "Team Points"},
		},
		issue: issueWithFields(map[string]string{"f2": "3"}),
	}

	result, err := NewDiscoverer(source).Discover(context.Background(), DiscoverOptions{
		ProjectKey:     "DEMO",
		SampleIssueKey: "DEMO-1",
		FieldNames:     []string{"storyPoints"},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	mapping := result.Mappings["storyPoints"]
	if mapping.ID != "f2" {
		t.Errorf("mapped id = %s, want f2 (boosted by sample usage)", mapping.ID)
	}
	if mapping.Confidence != 95 {
		t.Errorf("confidence = %d, want 95", mapping.Confidence)
	}
}

func TestDiscover_BonusClampsAt100(t *testing.T) {
	source := &fakeSource{
		catalog: []jira.Field{
			{ID: "f1", Name: "storyPoints", Schema: &jira.Schema{Type: "number"}},
		},
		issue: issueWithFields(map[string]string{"f1": "5"}),
	}

	result, err := NewDiscoverer(source).Discover(context.Background(), DiscoverOptions{
		ProjectKey:     "DEMO",
		SampleIssueKey: "DEMO-1",
		FieldNames:     []string{"storyPoints"},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := result.Mappings["storyPoints"].Confidence; got != 100 {
		t.Errorf("confidence = %d, want 100 (clamped)", got)
	}
}

func TestDiscover_SampleIssueFailureIsNonFatal(t *testing.T) {
	source := &fakeSource{
		catalog:  []jira.Field{{ID: "f1", Name: "Story Points"}},
		issueErr: errors.New("404"),
	}

	result, err := NewDiscoverer(source).Discover(context.Background(), DiscoverOptions{
		ProjectKey:     "DEMO",
		SampleIssueKey: "DEMO-404",
		FieldNames:     []string{"storyPoints"},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	// Plain pattern score, no bonus.
	if got := result.Mappings["storyPoints"].Confidence; got != 80 {
		t.Errorf("confidence = %d, want 80", got)
	}
}

func TestDiscover_CatalogFailureAborts(t *testing.T) {
	source := &fakeSource{catalogErr: errors.New("503")}

	_, err := NewDiscoverer(source).Discover(context.Background(), DiscoverOptions{
		ProjectKey: "DEMO",
		FieldNames: []string{"storyPoints"},
	})
	if err == nil {
		t.Fatal("expected error from catalog fetch failure")
	}
}

func TestDiscover_ExploratoryMode(t *testing.T) {
	source := &fakeSource{
		catalog: []jira.Field{
			{ID: "customfield_10016", Name: "Story Points"},
			{ID: "customfield_10014", Name: "Epic Link"},
			{ID: "customfield_99", Name: "???"},
		},
		issue: issueWithFields(map[string]string{
			"customfield_10016": "5",
			"customfield_10014": "null", // null values don't count as in use
		}),
	}

	result, err := NewDiscoverer(source).Discover(context.Background(), DiscoverOptions{
		ProjectKey:     "DEMO",
		SampleIssueKey: "DEMO-1",
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	// Keys are normalized display names; empty keys are dropped.
	if len(result.Mappings) != 2 {
		t.Fatalf("got %d mappings, want 2: %v", len(result.Mappings), result.Mappings)
	}
	sp, ok := result.Mappings["story_points"]
	if !ok {
		t.Fatal("story_points missing from exploratory mappings")
	}
	if sp.Confidence != 90 {
		t.Errorf("in-use confidence = %d, want 90", sp.Confidence)
	}
	el, ok := result.Mappings["epic_link"]
	if !ok {
		t.Fatal("epic_link missing from exploratory mappings")
	}
	if el.Confidence != 50 {
		t.Errorf("unused confidence = %d, want 50", el.Confidence)
	}
	if len(result.Unresolved) != 0 {
		t.Errorf("exploratory mode reported unresolved = %v", result.Unresolved)
	}
}

func TestDiscover_ExploratoryDuplicateNamesKeepSeparateEntries(t *testing.T) {
	// Display names are not unique across a catalog. Two fields both
	// named "Story Points" must yield two entries, not one.
	source := &fakeSource{
		catalog: []jira.Field{
			{ID: "customfield_10016", Name: "Story Points"},
			{ID: "customfield_10024", Name: "Story Points"},
		},
	}

	result, err := NewDiscoverer(source).Discover(context.Background(), DiscoverOptions{
		ProjectKey: "DEMO",
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if len(result.Mappings) != 2 {
		t.Fatalf("got %d mappings, want 2: %v", len(result.Mappings), result.Mappings)
	}
	if _, ok := result.Mappings["story_points"]; !ok {
		t.Error("first field lost its plain normalized key")
	}
	if _, ok := result.Mappings["story_points_customfield_10024"]; !ok {
		t.Errorf("colliding field not disambiguated by id: %v", result.Mappings)
	}
}

func TestDiscover_KeepsCatalogForCaching(t *testing.T) {
	catalog := []jira.Field{{ID: "f1", Name: "Story Points"}}
	source := &fakeSource{catalog: catalog}

	result, err := NewDiscoverer(source).Discover(context.Background(), DiscoverOptions{
		ProjectKey: "DEMO",
		FieldNames: []string{"storyPoints"},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(result.Catalog) != 1 || result.Catalog[0].ID != "f1" {
		t.Errorf("catalog not carried through: %+v", result.Catalog)
	}
}
