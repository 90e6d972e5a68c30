package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/HendryAvila/jira-bridge/internal/jira"
	"github.com/HendryAvila/jira-bridge/internal/projects"
	"github.com/HendryAvila/jira-bridge/internal/zephyr"
	"github.com/mark3labs/mcp-go/mcp"
)

// fakeJira is a canned JiraAPI for handler tests. Calls that a test does
// not configure fail loudly.
type fakeJira struct {
	fields       []jira.Field
	fieldsErr    error
	issue        *jira.Issue
	issueErr     error
	created      *jira.CreatedIssue
	createdReq   *jira.IssueRequest
	createErr    error
	updatedKey   string
	updatedReq   *jira.IssueRequest
	transitions  []jira.Transition
	transitioned string
	searchResult *jira.SearchResult
	user         *jira.User
}

func (f *fakeJira) Myself(ctx context.Context) (*jira.User, error) {
	if f.user == nil {
		return nil, errors.New("not configured")
	}
	return f.user, nil
}

func (f *fakeJira) ListFields(ctx context.Context) ([]jira.Field, error) {
	return f.fields, f.fieldsErr
}

func (f *fakeJira) GetIssue(ctx context.Context, issueKey string) (*jira.Issue, error) {
	if f.issueErr != nil {
		return nil, f.issueErr
	}
	if f.issue == nil {
		return nil, errors.New("no such issue")
	}
	return f.issue, nil
}

func (f *fakeJira) CreateIssue(ctx context.Context, req *jira.IssueRequest) (*jira.CreatedIssue, error) {
	f.createdReq = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.created == nil {
		return nil, errors.New("not configured")
	}
	return f.created, nil
}

func (f *fakeJira) UpdateIssue(ctx context.Context, issueKey string, req *jira.IssueRequest) error {
	f.updatedKey = issueKey
	f.updatedReq = req
	return nil
}

func (f *fakeJira) ListTransitions(ctx context.Context, issueKey string) ([]jira.Transition, error) {
	return f.transitions, nil
}

func (f *fakeJira) TransitionIssue(ctx context.Context, issueKey, targetStatus string) error {
	f.transitioned = issueKey + ":" + targetStatus
	return nil
}

func (f *fakeJira) AddComment(ctx context.Context, issueKey, body string) error {
	return nil
}

func (f *fakeJira) UploadAttachment(ctx context.Context, issueKey, filePath string) (*jira.Attachment, error) {
	return nil, errors.New("not configured")
}

func (f *fakeJira) SearchIssues(ctx context.Context, jql string, maxResults int) (*jira.SearchResult, error) {
	if f.searchResult == nil {
		return nil, errors.New("not configured")
	}
	return f.searchResult, nil
}

func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

func getResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func storyPointsCatalog() []jira.Field {
	return []jira.Field{
		{ID: "summary", Name: "Summary"},
		{
			ID: "customfield_10016", Name: "Story Points", Custom: true,
			Schema: &jira.Schema{Type: "number"},
		},
		{
			ID: "customfield_10014", Name: "Epic Link", Custom: true,
			Schema: &jira.Schema{Type: "any", Custom: "com.pyxis.greenhopper.jira:gh-epic-link"},
		},
	}
}

func TestConfigureFields(t *testing.T) {
	store := projects.NewStore(t.TempDir())
	client := &fakeJira{fields: storyPointsCatalog()}
	tool := NewConfigureFieldsTool(client, store)

	req := callRequest(map[string]interface{}{
		"project_key":        "demo",
		"fields_to_discover": "storyPoints, epicLink",
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(result))
	}

	text := getResultText(result)
	if !strings.Contains(text, "Resolved 2 of 2") {
		t.Errorf("result text = %q", text)
	}
	if !strings.Contains(text, "customfield_10016") || !strings.Contains(text, "customfield_10014") {
		t.Errorf("mapping table missing field ids: %q", text)
	}

	// Key is normalized to upper case and the config is persisted.
	cfg, err := store.Get("DEMO")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg == nil {
		t.Fatal("config not saved")
	}
	if cfg.Fields["storyPoints"].ID != "customfield_10016" {
		t.Errorf("storyPoints mapping = %+v", cfg.Fields["storyPoints"])
	}
	if len(cfg.FieldCache) != len(storyPointsCatalog()) {
		t.Errorf("field cache has %d entries, want %d", len(cfg.FieldCache), len(storyPointsCatalog()))
	}
}

func TestConfigureFieldsMergesExistingConfig(t *testing.T) {
	store := projects.NewStore(t.TempDir())
	cfg := projects.NewProjectConfig("DEMO")
	cfg.Fields["sprint"] = projects.FieldMapping{ID: "customfield_10020", Name: "Sprint", Type: "array", Confidence: 100}
	if err := store.Save(cfg); err != nil {
		t.Fatal(err)
	}

	tool := NewConfigureFieldsTool(&fakeJira{fields: storyPointsCatalog()}, store)
	req := callRequest(map[string]interface{}{
		"project_key":        "DEMO",
		"fields_to_discover": "storyPoints",
	})
	if _, err := tool.Handle(context.Background(), req); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	got, _ := store.Get("DEMO")
	if _, ok := got.Fields["sprint"]; !ok {
		t.Error("re-run dropped the previously configured sprint mapping")
	}
	if _, ok := got.Fields["storyPoints"]; !ok {
		t.Error("re-run did not add the new storyPoints mapping")
	}
}

func TestConfigureFieldsReportsUnresolved(t *testing.T) {
	store := projects.NewStore(t.TempDir())
	tool := NewConfigureFieldsTool(&fakeJira{fields: storyPointsCatalog()}, store)

	req := callRequest(map[string]interface{}{
		"project_key":        "DEMO",
		"fields_to_discover": "storyPoints,origination",
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := getResultText(result)
	if !strings.Contains(text, "Unresolved") || !strings.Contains(text, "origination") {
		t.Errorf("unresolved section missing: %q", text)
	}
}

func TestConfigureFieldsUserHintsOverrideDiscovery(t *testing.T) {
	// Discovery matches "Story Points" → customfield_10016, but the user
	// knows their instance uses a different field. The hint wins, is
	// enriched from the catalog, and persists at full confidence.
	catalog := append(storyPointsCatalog(), jira.Field{
		ID: "customfield_10024", Name: "Punkteschätzung", Custom: true,
		Schema: &jira.Schema{Type: "number"},
	})
	store := projects.NewStore(t.TempDir())
	tool := NewConfigureFieldsTool(&fakeJira{fields: catalog}, store)

	req := callRequest(map[string]interface{}{
		"project_key":        "DEMO",
		"fields_to_discover": "storyPoints",
		"user_hints":         "storyPoints=customfield_10024",
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(result))
	}

	cfg, _ := store.Get("DEMO")
	mapping := cfg.Fields["storyPoints"]
	if mapping.ID != "customfield_10024" {
		t.Errorf("mapping id = %s, want the hinted field", mapping.ID)
	}
	if mapping.Confidence != 100 {
		t.Errorf("hint confidence = %d, want 100", mapping.Confidence)
	}
	if mapping.Name != "Punkteschätzung" || mapping.Type != "number" {
		t.Errorf("hint not enriched from catalog: %+v", mapping)
	}

	// The correction survives a reload — it is stored, not per-process.
	store.ClearCache()
	cfg, _ = store.Get("DEMO")
	if cfg.Fields["storyPoints"].ID != "customfield_10024" {
		t.Error("hinted mapping did not persist")
	}
}

func TestConfigureFieldsUserHintResolvesUnmatchedField(t *testing.T) {
	// "origination" has no candidate in the catalog; a hint settles it
	// and it must not be reported as unresolved.
	store := projects.NewStore(t.TempDir())
	tool := NewConfigureFieldsTool(&fakeJira{fields: storyPointsCatalog()}, store)

	req := callRequest(map[string]interface{}{
		"project_key":        "DEMO",
		"fields_to_discover": "origination",
		"user_hints":         "origination=customfield_10100",
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	text := getResultText(result)
	if strings.Contains(text, "Unresolved") {
		t.Errorf("hinted field still reported unresolved: %q", text)
	}
	cfg, _ := store.Get("DEMO")
	mapping := cfg.Fields["origination"]
	if mapping.ID != "customfield_10100" || mapping.Confidence != 100 {
		t.Errorf("origination mapping = %+v", mapping)
	}
	// Not in the catalog: id doubles as display name, type defaults.
	if mapping.Name != "customfield_10100" || mapping.Type != "string" {
		t.Errorf("out-of-catalog hint = %+v", mapping)
	}
}

func TestConfigureFieldsRejectsMalformedHints(t *testing.T) {
	store := projects.NewStore(t.TempDir())
	tool := NewConfigureFieldsTool(&fakeJira{fields: storyPointsCatalog()}, store)

	for _, hints := range []string{"storyPoints", "=customfield_1", "storyPoints="} {
		req := callRequest(map[string]interface{}{
			"project_key": "DEMO",
			"user_hints":  hints,
		})
		result, err := tool.Handle(context.Background(), req)
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if !isErrorResult(result) {
			t.Errorf("malformed hint %q accepted", hints)
		}
	}
	if cfg, _ := store.Get("DEMO"); cfg != nil {
		t.Error("malformed hints persisted a config")
	}
}

func TestConfigureFieldsCatalogFailureLeavesConfigUntouched(t *testing.T) {
	store := projects.NewStore(t.TempDir())
	tool := NewConfigureFieldsTool(&fakeJira{fieldsErr: errors.New("503")}, store)

	req := callRequest(map[string]interface{}{"project_key": "DEMO"})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("expected error result")
	}
	if cfg, _ := store.Get("DEMO"); cfg != nil {
		t.Error("failed discovery persisted a config")
	}
}

func TestCreateIssueResolvesSemanticFields(t *testing.T) {
	store := projects.NewStore(t.TempDir())
	cfg := projects.NewProjectConfig("DEMO")
	cfg.Fields["storyPoints"] = projects.FieldMapping{ID: "customfield_10016", Type: "number", Confidence: 90}
	if err := store.Save(cfg); err != nil {
		t.Fatal(err)
	}

	client := &fakeJira{created: &jira.CreatedIssue{ID: "10001", Key: "DEMO-42"}}
	tool := NewCreateIssueTool(client, store)

	req := callRequest(map[string]interface{}{
		"project_key":  "DEMO",
		"summary":      "Add retry logic",
		"issue_type":   "Story",
		"story_points": 5.0,
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "DEMO-42") {
		t.Errorf("result text = %q", getResultText(result))
	}

	if client.createdReq == nil {
		t.Fatal("no create request sent")
	}
	if got := client.createdReq.Fields["customfield_10016"]; got != 5.0 {
		t.Errorf("story points sent as %v, want 5", got)
	}
	if got := client.createdReq.Fields["summary"]; got != "Add retry logic" {
		t.Errorf("summary = %v", got)
	}
}

func TestCreateIssueConsolidatesUnresolvedFields(t *testing.T) {
	store := projects.NewStore(t.TempDir())
	client := &fakeJira{created: &jira.CreatedIssue{Key: "DEMO-1"}}
	tool := NewCreateIssueTool(client, store)

	req := callRequest(map[string]interface{}{
		"project_key":  "DEMO",
		"summary":      "Needs two unmapped fields",
		"story_points": 3.0,
		"epic_link":    "DEMO-100",
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected error result for unresolved fields")
	}
	// One message naming both fields, not two round trips.
	text := getResultText(result)
	if !strings.Contains(text, "storyPoints") || !strings.Contains(text, "epicLink") {
		t.Errorf("consolidated error does not name both fields: %q", text)
	}
	if !strings.Contains(text, "jira_configure_project_fields") {
		t.Errorf("error should point at the configuration tool: %q", text)
	}
	if client.createdReq != nil {
		t.Error("issue was created despite unresolved fields")
	}
}

func TestCreateIssueEnvOverride(t *testing.T) {
	t.Setenv("JIRA_STORY_POINTS_FIELD", "customfield_77777")

	store := projects.NewStore(t.TempDir())
	client := &fakeJira{created: &jira.CreatedIssue{Key: "DEMO-1"}}
	tool := NewCreateIssueTool(client, store)

	req := callRequest(map[string]interface{}{
		"project_key":  "DEMO",
		"summary":      "Env override wins",
		"story_points": 8.0,
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(result))
	}
	if got := client.createdReq.Fields["customfield_77777"]; got != 8.0 {
		t.Errorf("env-resolved field = %v, want 8", got)
	}
}

func TestCreateIssueValidation(t *testing.T) {
	tool := NewCreateIssueTool(&fakeJira{}, projects.NewStore(t.TempDir()))

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing project key", map[string]interface{}{"summary": "x"}},
		{"bad project key", map[string]interface{}{"project_key": "not a key!", "summary": "x"}},
		{"missing summary", map[string]interface{}{"project_key": "DEMO"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Handle(context.Background(), callRequest(tt.args))
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if !isErrorResult(result) {
				t.Error("expected error result")
			}
		})
	}
}

func TestCopyConfigOverwriteGuard(t *testing.T) {
	store := projects.NewStore(t.TempDir())
	src := projects.NewProjectConfig("DEMO")
	src.Fields["storyPoints"] = projects.FieldMapping{ID: "customfield_10016"}
	if err := store.Save(src); err != nil {
		t.Fatal(err)
	}
	target := projects.NewProjectConfig("OPS")
	target.Fields["sprint"] = projects.FieldMapping{ID: "customfield_10020"}
	if err := store.Save(target); err != nil {
		t.Fatal(err)
	}

	tool := NewCopyConfigTool(store)

	// Without overwrite: refuse, keep the target intact.
	req := callRequest(map[string]interface{}{
		"source_project": "DEMO",
		"target_project": "OPS",
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("guard should report, not error: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "overwrite=true") {
		t.Errorf("guard text = %q", getResultText(result))
	}
	got, _ := store.Get("OPS")
	if _, ok := got.Fields["sprint"]; !ok {
		t.Error("target config replaced without overwrite")
	}

	// With overwrite: replace.
	req = callRequest(map[string]interface{}{
		"source_project": "DEMO",
		"target_project": "OPS",
		"overwrite":      true,
	})
	if _, err := tool.Handle(context.Background(), req); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	got, _ = store.Get("OPS")
	if _, ok := got.Fields["storyPoints"]; !ok {
		t.Error("overwrite did not copy the source mapping")
	}
}

func TestCopyConfigSameKey(t *testing.T) {
	tool := NewCopyConfigTool(projects.NewStore(t.TempDir()))
	req := callRequest(map[string]interface{}{
		"source_project": "DEMO",
		"target_project": "demo",
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("expected error result for same source and target")
	}
}

func TestCopyConfigUnknownSource(t *testing.T) {
	tool := NewCopyConfigTool(projects.NewStore(t.TempDir()))
	req := callRequest(map[string]interface{}{
		"source_project": "NOPE",
		"target_project": "OPS",
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("expected error result for unconfigured source")
	}
}

func TestGetConfigUnconfiguredProject(t *testing.T) {
	tool := NewGetConfigTool(projects.NewStore(t.TempDir()))
	req := callRequest(map[string]interface{}{"project_key": "DEMO"})

	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if isErrorResult(result) {
		t.Fatal("unconfigured project should be a notice, not an error")
	}
	if !strings.Contains(getResultText(result), "jira_configure_project_fields") {
		t.Errorf("notice = %q", getResultText(result))
	}
}

func TestHelpers(t *testing.T) {
	t.Run("splitCSV", func(t *testing.T) {
		got := splitCSV(" a, b ,, c ")
		want := []string{"a", "b", "c"}
		if len(got) != len(want) {
			t.Fatalf("splitCSV = %v", got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("splitCSV[%d] = %q, want %q", i, got[i], want[i])
			}
		}
		if splitCSV("") != nil {
			t.Error("splitCSV(\"\") should be nil")
		}
	})

	t.Run("projectKeyArg", func(t *testing.T) {
		req := callRequest(map[string]interface{}{"project_key": " demo1 "})
		key, err := projectKeyArg(req, "project_key")
		if err != nil {
			t.Fatalf("projectKeyArg: %v", err)
		}
		if key != "DEMO1" {
			t.Errorf("key = %q, want DEMO1", key)
		}

		req = callRequest(map[string]interface{}{"project_key": "no spaces"})
		if _, err := projectKeyArg(req, "project_key"); err == nil {
			t.Error("invalid key accepted")
		}
	})

	t.Run("parseUserHints", func(t *testing.T) {
		hints, err := parseUserHints(" storyPoints=customfield_10024 , epicLink=customfield_10014 ")
		if err != nil {
			t.Fatalf("parseUserHints: %v", err)
		}
		if hints["storyPoints"] != "customfield_10024" || hints["epicLink"] != "customfield_10014" {
			t.Errorf("hints = %v", hints)
		}
		if hints, err := parseUserHints(""); err != nil || hints != nil {
			t.Errorf("empty input = %v, %v", hints, err)
		}
		if _, err := parseUserHints("storyPoints"); err == nil {
			t.Error("pair without '=' accepted")
		}
	})

	t.Run("rawPreview truncates on rune boundaries", func(t *testing.T) {
		// A long structured value full of multibyte runes must not be
		// cut mid-rune. The 7-byte prefix puts the byte cutoff in the
		// middle of a 2-byte rune.
		long := `{"xy":"` + strings.Repeat("ü", 200) + `"}`
		got := rawPreview(json.RawMessage(long))
		if !utf8.ValidString(got) {
			t.Errorf("preview is not valid UTF-8: %q", got)
		}
		if !strings.HasSuffix(got, "…`") {
			t.Errorf("long preview not truncated: %q", got)
		}
	})

	t.Run("formatMappingTable", func(t *testing.T) {
		table := formatMappingTable(map[string]projects.FieldMapping{
			"storyPoints": {ID: "customfield_10016", Name: "Story Points", Type: "number", Confidence: 90},
			"epicLink":    {ID: "customfield_10014", Name: "Epic Link", Type: "any", Confidence: 100},
		})
		// Sorted by semantic name: epicLink before storyPoints.
		if strings.Index(table, "epicLink") > strings.Index(table, "storyPoints") {
			t.Errorf("table not sorted:\n%s", table)
		}
		if !strings.Contains(table, "`customfield_10016`") || !strings.Contains(table, "90%") {
			t.Errorf("table missing cells:\n%s", table)
		}
	})
}

// fakeZephyr is a canned ZephyrAPI for the test-step tools.
type fakeZephyr struct {
	steps   []zephyr.TestStep
	added   *zephyr.TestStep
	deleted string
}

func (f *fakeZephyr) GetTestSteps(ctx context.Context, issueID, projectID string) ([]zephyr.TestStep, error) {
	return f.steps, nil
}

func (f *fakeZephyr) AddTestStep(ctx context.Context, issueID, projectID string, step zephyr.TestStep) (*zephyr.TestStep, error) {
	f.added = &step
	created := step
	created.ID = "99"
	return &created, nil
}

func (f *fakeZephyr) DeleteTestStep(ctx context.Context, issueID, stepID, projectID string) error {
	f.deleted = issueID + ":" + stepID
	return nil
}

func TestTestStepTools(t *testing.T) {
	client := &fakeZephyr{steps: []zephyr.TestStep{
		{ID: "1", Step: "Open the login page", Result: "Form is shown"},
	}}

	t.Run("get lists steps with ids", func(t *testing.T) {
		tool := NewGetTestStepsTool(client)
		req := callRequest(map[string]interface{}{"issue_id": "10000", "project_id": "10200"})
		result, err := tool.Handle(context.Background(), req)
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		text := getResultText(result)
		if !strings.Contains(text, "Open the login page") || !strings.Contains(text, "(id 1)") {
			t.Errorf("result text = %q", text)
		}
	})

	t.Run("add", func(t *testing.T) {
		tool := NewAddTestStepTool(client)
		req := callRequest(map[string]interface{}{
			"issue_id":   "10000",
			"project_id": "10200",
			"step":       "Submit invalid credentials",
			"result":     "Error banner appears",
		})
		result, err := tool.Handle(context.Background(), req)
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if isErrorResult(result) {
			t.Fatalf("unexpected error result: %s", getResultText(result))
		}
		if client.added == nil || client.added.Step != "Submit invalid credentials" {
			t.Errorf("added step = %+v", client.added)
		}
	})

	t.Run("delete", func(t *testing.T) {
		tool := NewDeleteTestStepTool(client)
		req := callRequest(map[string]interface{}{
			"issue_id":   "10000",
			"step_id":    "1",
			"project_id": "10200",
		})
		result, err := tool.Handle(context.Background(), req)
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if isErrorResult(result) {
			t.Fatalf("unexpected error result: %s", getResultText(result))
		}
		if client.deleted != "10000:1" {
			t.Errorf("deleted = %q, want 10000:1", client.deleted)
		}
	})

	t.Run("delete requires step id", func(t *testing.T) {
		tool := NewDeleteTestStepTool(client)
		req := callRequest(map[string]interface{}{"issue_id": "10000", "project_id": "10200"})
		result, err := tool.Handle(context.Background(), req)
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if !isErrorResult(result) {
			t.Error("expected error result without step_id")
		}
	})
}

func TestUpdateIssueNothingToUpdate(t *testing.T) {
	client := &fakeJira{}
	tool := NewUpdateIssueTool(client, projects.NewStore(t.TempDir()))

	req := callRequest(map[string]interface{}{"issue_key": "DEMO-1"})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("expected error result when no fields are provided")
	}
	if client.updatedReq != nil {
		t.Error("empty update was sent to Jira")
	}
}

func TestUpdateIssueDerivesProjectFromIssueKey(t *testing.T) {
	store := projects.NewStore(t.TempDir())
	cfg := projects.NewProjectConfig("DEMO")
	cfg.Fields["storyPoints"] = projects.FieldMapping{ID: "customfield_10016", Type: "number", Confidence: 90}
	if err := store.Save(cfg); err != nil {
		t.Fatal(err)
	}

	client := &fakeJira{}
	tool := NewUpdateIssueTool(client, store)

	req := callRequest(map[string]interface{}{
		"issue_key":    "DEMO-7",
		"story_points": 13.0,
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(result))
	}
	if client.updatedKey != "DEMO-7" {
		t.Errorf("updated key = %q", client.updatedKey)
	}
	if got := client.updatedReq.Fields["customfield_10016"]; got != 13.0 {
		t.Errorf("story points = %v, want 13", got)
	}
}
