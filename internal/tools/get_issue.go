package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/HendryAvila/jira-bridge/internal/adf"
	"github.com/HendryAvila/jira-bridge/internal/projects"
	"github.com/mark3labs/mcp-go/mcp"
)

// GetIssueTool handles the jira_get_issue MCP tool.
type GetIssueTool struct {
	client JiraAPI
	store  *projects.Store
}

// NewGetIssueTool creates the tool with its dependencies.
func NewGetIssueTool(client JiraAPI, store *projects.Store) *GetIssueTool {
	return &GetIssueTool{client: client, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *GetIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_get_issue",
		mcp.WithDescription(
			"Fetch one Jira issue by key. When the issue's project has a "+
				"saved field configuration, mapped custom fields are shown "+
				"under their semantic names.",
		),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Issue key (e.g. PROJ-123)."),
		),
	)
}

// Handle processes the jira_get_issue tool call.
func (t *GetIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := req.GetString("issue_key", "")
	if issueKey == "" {
		return mcp.NewToolResultError("'issue_key' is required"), nil
	}

	issue, err := t.client.GetIssue(ctx, issueKey)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetching issue: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s: %s\n\n", issue.Key, issue.StringField("summary"))
	fmt.Fprintf(&sb, "**Status:** %s\n", orDash(issue.NamedField("status")))
	fmt.Fprintf(&sb, "**Type:** %s\n", orDash(issue.NamedField("issuetype")))
	fmt.Fprintf(&sb, "**Priority:** %s\n", orDash(issue.NamedField("priority")))
	fmt.Fprintf(&sb, "**Assignee:** %s\n", orDash(displayName(issue.Fields["assignee"])))

	if desc := descriptionText(issue.Fields["description"]); desc != "" {
		fmt.Fprintf(&sb, "\n## Description\n\n%s\n", desc)
	}

	// Project-configured custom fields, by semantic name.
	if idx := strings.IndexByte(issue.Key, '-'); idx > 0 {
		projectKey := strings.ToUpper(issue.Key[:idx])
		cfg, err := t.store.Get(projectKey)
		if err == nil && cfg != nil && len(cfg.Fields) > 0 {
			var lines []string
			for _, name := range sortedMappingNames(cfg.Fields) {
				raw, ok := issue.Fields[cfg.Fields[name].ID]
				if !ok || string(raw) == "null" {
					continue
				}
				lines = append(lines, fmt.Sprintf("- **%s**: %s", name, rawPreview(raw)))
			}
			if len(lines) > 0 {
				fmt.Fprintf(&sb, "\n## Custom Fields\n\n%s\n", strings.Join(lines, "\n"))
			}
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func displayName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var user struct {
		DisplayName string `json:"displayName"`
	}
	if err := json.Unmarshal(raw, &user); err != nil {
		return ""
	}
	return user.DisplayName
}

// descriptionText renders an ADF description (or a plain string on
// older instances) as text.
func descriptionText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var doc adf.Document
	if err := json.Unmarshal(raw, &doc); err == nil && doc.Type == "doc" {
		return doc.PlainText()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

// rawPreview renders a raw field value compactly: strings and numbers
// as-is, anything structured as truncated JSON.
func rawPreview(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strings.TrimSuffix(fmt.Sprintf("%g", f), ".0")
	}
	compact := string(raw)
	if len(compact) > 120 {
		cut := 120
		for cut > 0 && !utf8.RuneStart(compact[cut]) {
			cut--
		}
		compact = compact[:cut] + "…"
	}
	return "`" + compact + "`"
}

func sortedMappingNames(mappings map[string]projects.FieldMapping) []string {
	names := make([]string, 0, len(mappings))
	for name := range mappings {
		names = append(names, name)
	}
	return sortedCopy(names)
}
