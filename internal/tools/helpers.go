// Package tools implements the MCP tool handlers.
//
// Each tool is a struct that receives its dependencies at construction
// (DIP) and exposes a Definition for registration plus a Handle
// compatible with mcp-go's CallToolRequest signature. One file per tool.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/HendryAvila/jira-bridge/internal/config"
	"github.com/HendryAvila/jira-bridge/internal/fields"
	"github.com/HendryAvila/jira-bridge/internal/jira"
	"github.com/HendryAvila/jira-bridge/internal/projects"
	"github.com/mark3labs/mcp-go/mcp"
)

// JiraAPI is the slice of the Jira client the tools use. Abstracted for
// testability.
type JiraAPI interface {
	Myself(ctx context.Context) (*jira.User, error)
	ListFields(ctx context.Context) ([]jira.Field, error)
	GetIssue(ctx context.Context, issueKey string) (*jira.Issue, error)
	CreateIssue(ctx context.Context, req *jira.IssueRequest) (*jira.CreatedIssue, error)
	UpdateIssue(ctx context.Context, issueKey string, req *jira.IssueRequest) error
	ListTransitions(ctx context.Context, issueKey string) ([]jira.Transition, error)
	TransitionIssue(ctx context.Context, issueKey, targetStatus string) error
	AddComment(ctx context.Context, issueKey, body string) error
	UploadAttachment(ctx context.Context, issueKey, filePath string) (*jira.Attachment, error)
	SearchIssues(ctx context.Context, jql string, maxResults int) (*jira.SearchResult, error)
}

// semanticArg ties a tool argument to its semantic field name. The
// value conversion turns the raw argument into the wire value Jira
// expects for that field kind.
type semanticArg struct {
	arg     string
	field   string
	convert func(req mcp.CallToolRequest, arg string) (any, bool)
}

// semanticArgs is the single place where tool arguments map onto
// semantic field names. Adding a custom field means one entry here plus
// the matching mcp.With* in the issue tools.
var semanticArgs = []semanticArg{
	{"story_points", "storyPoints", floatArg},
	{"epic_link", "epicLink", stringArg},
	{"sprint_id", "sprint", floatArg},
	{"acceptance_criteria", "acceptanceCriteria", stringArg},
	{"origination", "origination", stringArg},
	{"product", "product", stringArg},
	{"category", "category", stringArg},
}

func stringArg(req mcp.CallToolRequest, arg string) (any, bool) {
	v := req.GetString(arg, "")
	if v == "" {
		return nil, false
	}
	return v, true
}

func floatArg(req mcp.CallToolRequest, arg string) (any, bool) {
	v := req.GetFloat(arg, -1)
	if v < 0 {
		return nil, false
	}
	return v, true
}

// applySemanticFields resolves every semantic argument present on the
// request into in.CustomFields. Resolution failures accumulate on the
// resolver; the caller reports them once via resolver.Err after all
// fields have been attempted.
func applySemanticFields(req mcp.CallToolRequest, resolver *fields.Resolver, in *jira.IssueInput) {
	for _, sa := range semanticArgs {
		value, ok := sa.convert(req, sa.arg)
		if !ok {
			continue
		}
		id := resolver.Resolve(sa.field, config.FieldEnvVar(sa.field))
		if id == "" {
			continue
		}
		in.SetCustomField(id, value)
	}
}

// withSemanticFieldArgs appends the shared custom-field arguments to a
// tool definition.
func withSemanticFieldArgs(opts []mcp.ToolOption) []mcp.ToolOption {
	return append(opts,
		mcp.WithNumber("story_points",
			mcp.Description("Story point estimate. Requires the storyPoints field mapping (or JIRA_STORY_POINTS_FIELD)."),
		),
		mcp.WithString("epic_link",
			mcp.Description("Key of the epic to link this issue to (e.g. PROJ-100)."),
		),
		mcp.WithNumber("sprint_id",
			mcp.Description("Numeric sprint id to assign the issue to."),
		),
		mcp.WithString("acceptance_criteria",
			mcp.Description("Acceptance criteria text."),
		),
		mcp.WithString("origination",
			mcp.Description("Value for the origination custom field."),
		),
		mcp.WithString("product",
			mcp.Description("Value for the product custom field."),
		),
		mcp.WithString("category",
			mcp.Description("Value for the category custom field."),
		),
	)
}

// formatMappingTable renders a field mapping table, sorted by semantic
// name for stable output.
func formatMappingTable(mappings map[string]projects.FieldMapping) string {
	names := make([]string, 0, len(mappings))
	for name := range mappings {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("| Field | Jira Field | ID | Type | Confidence |\n")
	sb.WriteString("|-------|------------|----|------|------------|\n")
	for _, name := range names {
		m := mappings[name]
		fmt.Fprintf(&sb, "| %s | %s | `%s` | %s | %d%% |\n",
			name, m.Name, m.ID, m.Type, m.Confidence)
	}
	return sb.String()
}

// sortedCopy returns a sorted copy of names.
func sortedCopy(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

// parseUserHints parses comma-separated name=fieldId correction pairs,
// e.g. "storyPoints=customfield_10024,epicLink=customfield_10014".
func parseUserHints(s string) (map[string]string, error) {
	pairs := splitCSV(s)
	if len(pairs) == 0 {
		return nil, nil
	}
	hints := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, id, ok := strings.Cut(pair, "=")
		name, id = strings.TrimSpace(name), strings.TrimSpace(id)
		if !ok || name == "" || id == "" {
			return nil, fmt.Errorf("invalid user hint %q — expected name=fieldId", pair)
		}
		hints[name] = id
	}
	return hints, nil
}

// removeName filters one name out of a slice, preserving order.
func removeName(names []string, name string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// splitCSV splits a comma-separated argument, dropping empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// projectKeyArg fetches and validates the named project key argument.
func projectKeyArg(req mcp.CallToolRequest, arg string) (string, error) {
	key := strings.ToUpper(strings.TrimSpace(req.GetString(arg, "")))
	if key == "" {
		return "", fmt.Errorf("'%s' is required", arg)
	}
	for _, r := range key {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("'%s' must be an uppercase alphanumeric project key, got %q", arg, key)
		}
	}
	return key, nil
}
