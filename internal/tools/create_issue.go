package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/jira-bridge/internal/fields"
	"github.com/HendryAvila/jira-bridge/internal/jira"
	"github.com/HendryAvila/jira-bridge/internal/projects"
	"github.com/mark3labs/mcp-go/mcp"
)

// CreateIssueTool handles the jira_create_issue MCP tool.
type CreateIssueTool struct {
	client JiraAPI
	store  *projects.Store
}

// NewCreateIssueTool creates the tool with its dependencies.
func NewCreateIssueTool(client JiraAPI, store *projects.Store) *CreateIssueTool {
	return &CreateIssueTool{client: client, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateIssueTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Create a Jira issue. Custom fields (story points, epic link, "+
				"sprint, acceptance criteria, …) are addressed by semantic name "+
				"and resolved through the project's saved field configuration. "+
				"If any requested field has no mapping, the call fails with one "+
				"message naming all of them — configure them in a single pass.",
		),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Jira project key (e.g. PROJ)."),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Issue summary (title)."),
		),
		mcp.WithString("issue_type",
			mcp.Description("Issue type name: Task, Story, Bug, Epic, … Defaults to 'Task'."),
			mcp.DefaultString("Task"),
		),
		mcp.WithString("description",
			mcp.Description("Issue description. Blank lines separate paragraphs."),
		),
		mcp.WithString("labels",
			mcp.Description("Comma-separated labels."),
		),
		mcp.WithString("priority",
			mcp.Description("Priority name (e.g. High)."),
		),
		mcp.WithString("assignee_id",
			mcp.Description("Atlassian account id to assign the issue to."),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date as YYYY-MM-DD."),
		),
	}
	return mcp.NewTool("jira_create_issue", withSemanticFieldArgs(opts)...)
}

// Handle processes the jira_create_issue tool call.
func (t *CreateIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectKey, err := projectKeyArg(req, "project_key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary := req.GetString("summary", "")
	if summary == "" {
		return mcp.NewToolResultError("'summary' is required"), nil
	}

	in := jira.IssueInput{
		ProjectKey:  projectKey,
		Summary:     summary,
		IssueType:   req.GetString("issue_type", "Task"),
		Description: req.GetString("description", ""),
		Labels:      splitCSV(req.GetString("labels", "")),
		Priority:    req.GetString("priority", ""),
		AssigneeID:  req.GetString("assignee_id", ""),
		DueDate:     req.GetString("due_date", ""),
	}

	resolver := fields.NewResolver(t.store)
	resolver.Bind(projectKey)
	applySemanticFields(req, resolver, &in)
	if err := resolver.Err(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	created, err := t.client.CreateIssue(ctx, jira.BuildIssueRequest(in))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("creating issue: %v", err)), nil
	}

	response := fmt.Sprintf(
		"# Issue Created\n\n**Key:** %s\n**Type:** %s\n**Summary:** %s\n",
		created.Key, in.IssueType, in.Summary,
	)
	if len(in.CustomFields) > 0 {
		response += fmt.Sprintf("**Custom fields set:** %d\n", len(in.CustomFields))
	}
	return mcp.NewToolResultText(response), nil
}
