package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// CheckAuthTool handles the jira_check_auth MCP tool. A quick way to
// verify the configured credentials before doing anything else.
type CheckAuthTool struct {
	client JiraAPI
}

// NewCheckAuthTool creates the tool with its Jira client.
func NewCheckAuthTool(client JiraAPI) *CheckAuthTool {
	return &CheckAuthTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *CheckAuthTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_check_auth",
		mcp.WithDescription("Verify the Jira credentials and show the authenticated user."),
	)
}

// Handle processes the jira_check_auth tool call.
func (t *CheckAuthTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := t.client.Myself(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf(
			"authentication failed: %v — check JIRA_URL, JIRA_EMAIL, and JIRA_API_TOKEN", err,
		)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Authenticated as **%s** (%s).", user.DisplayName, user.EmailAddress,
	)), nil
}
