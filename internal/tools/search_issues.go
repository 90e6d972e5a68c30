package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// SearchIssuesTool handles the jira_search_issues MCP tool.
type SearchIssuesTool struct {
	client JiraAPI
}

// NewSearchIssuesTool creates the tool with its Jira client.
func NewSearchIssuesTool(client JiraAPI) *SearchIssuesTool {
	return &SearchIssuesTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *SearchIssuesTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_search_issues",
		mcp.WithDescription(
			"Search Jira issues with a JQL query "+
				"(e.g. 'project = PROJ AND status = \"In Progress\" ORDER BY updated DESC').",
		),
		mcp.WithString("jql",
			mcp.Required(),
			mcp.Description("JQL query."),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum issues to return (default 25)."),
		),
	)
}

// Handle processes the jira_search_issues tool call.
func (t *SearchIssuesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jql := req.GetString("jql", "")
	if jql == "" {
		return mcp.NewToolResultError("'jql' is required"), nil
	}
	maxResults := int(req.GetFloat("max_results", 25))

	result, err := t.client.SearchIssues(ctx, jql, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("searching issues: %v", err)), nil
	}
	if len(result.Issues) == 0 {
		return mcp.NewToolResultText("No issues matched the query."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Search Results (%d of %d)\n\n", len(result.Issues), result.Total)
	sb.WriteString("| Key | Type | Status | Summary |\n")
	sb.WriteString("|-----|------|--------|--------|\n")
	for i := range result.Issues {
		issue := &result.Issues[i]
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
			issue.Key,
			orDash(issue.NamedField("issuetype")),
			orDash(issue.NamedField("status")),
			issue.StringField("summary"))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
