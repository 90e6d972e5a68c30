package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// AddCommentTool handles the jira_add_comment MCP tool.
type AddCommentTool struct {
	client JiraAPI
}

// NewAddCommentTool creates the tool with its Jira client.
func NewAddCommentTool(client JiraAPI) *AddCommentTool {
	return &AddCommentTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *AddCommentTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_add_comment",
		mcp.WithDescription("Add a comment to a Jira issue. Blank lines separate paragraphs."),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Issue key (e.g. PROJ-123)."),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Comment text."),
		),
	)
}

// Handle processes the jira_add_comment tool call.
func (t *AddCommentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := req.GetString("issue_key", "")
	body := req.GetString("body", "")
	if issueKey == "" {
		return mcp.NewToolResultError("'issue_key' is required"), nil
	}
	if body == "" {
		return mcp.NewToolResultError("'body' is required"), nil
	}

	if err := t.client.AddComment(ctx, issueKey, body); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("adding comment: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Comment added to %s.", issueKey)), nil
}
