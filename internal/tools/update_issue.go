package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/jira-bridge/internal/fields"
	"github.com/HendryAvila/jira-bridge/internal/jira"
	"github.com/HendryAvila/jira-bridge/internal/projects"
	"github.com/mark3labs/mcp-go/mcp"
)

// UpdateIssueTool handles the jira_update_issue MCP tool.
type UpdateIssueTool struct {
	client JiraAPI
	store  *projects.Store
}

// NewUpdateIssueTool creates the tool with its dependencies.
func NewUpdateIssueTool(client JiraAPI, store *projects.Store) *UpdateIssueTool {
	return &UpdateIssueTool{client: client, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateIssueTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Update fields on an existing Jira issue. Only the provided "+
				"arguments change; semantic custom fields resolve through the "+
				"project's saved field configuration, like jira_create_issue.",
		),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Issue key (e.g. PROJ-123)."),
		),
		mcp.WithString("summary",
			mcp.Description("New summary."),
		),
		mcp.WithString("description",
			mcp.Description("New description. Blank lines separate paragraphs."),
		),
		mcp.WithString("labels",
			mcp.Description("Comma-separated labels (replaces the existing set)."),
		),
		mcp.WithString("priority",
			mcp.Description("Priority name."),
		),
		mcp.WithString("assignee_id",
			mcp.Description("Atlassian account id of the new assignee."),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date as YYYY-MM-DD."),
		),
	}
	return mcp.NewTool("jira_update_issue", withSemanticFieldArgs(opts)...)
}

// Handle processes the jira_update_issue tool call.
func (t *UpdateIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := req.GetString("issue_key", "")
	if issueKey == "" {
		return mcp.NewToolResultError("'issue_key' is required"), nil
	}

	in := jira.IssueInput{
		Summary:     req.GetString("summary", ""),
		Description: req.GetString("description", ""),
		Labels:      splitCSV(req.GetString("labels", "")),
		Priority:    req.GetString("priority", ""),
		AssigneeID:  req.GetString("assignee_id", ""),
		DueDate:     req.GetString("due_date", ""),
	}

	// The project key comes from the issue key prefix (PROJ-123 → PROJ).
	resolver := fields.NewResolver(t.store)
	if idx := strings.IndexByte(issueKey, '-'); idx > 0 {
		resolver.Bind(strings.ToUpper(issueKey[:idx]))
	}
	applySemanticFields(req, resolver, &in)
	if err := resolver.Err(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := jira.BuildIssueRequest(in)
	if len(payload.Fields) == 0 {
		return mcp.NewToolResultError("nothing to update — provide at least one field"), nil
	}

	if err := t.client.UpdateIssue(ctx, issueKey, payload); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("updating issue: %v", err)), nil
	}

	updated := make([]string, 0, len(payload.Fields))
	for field := range payload.Fields {
		updated = append(updated, field)
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Updated %s (%d fields: %s).", issueKey, len(updated), strings.Join(sortedCopy(updated), ", "),
	)), nil
}
