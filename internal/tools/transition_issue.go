package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// TransitionIssueTool handles the jira_transition_issue MCP tool.
type TransitionIssueTool struct {
	client JiraAPI
}

// NewTransitionIssueTool creates the tool with its Jira client.
func NewTransitionIssueTool(client JiraAPI) *TransitionIssueTool {
	return &TransitionIssueTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *TransitionIssueTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_transition_issue",
		mcp.WithDescription(
			"Move an issue through its workflow (e.g. to 'In Progress' or "+
				"'Done'). Without target_status, lists the transitions "+
				"currently available for the issue.",
		),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Issue key (e.g. PROJ-123)."),
		),
		mcp.WithString("target_status",
			mcp.Description("Transition or destination status name, case-insensitive. Omit to list options."),
		),
	)
}

// Handle processes the jira_transition_issue tool call.
func (t *TransitionIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := req.GetString("issue_key", "")
	if issueKey == "" {
		return mcp.NewToolResultError("'issue_key' is required"), nil
	}

	targetStatus := req.GetString("target_status", "")
	if targetStatus == "" {
		transitions, err := t.client.ListTransitions(ctx, issueKey)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing transitions: %v", err)), nil
		}
		if len(transitions) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No transitions available for %s.", issueKey)), nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "# Available Transitions: %s\n\n", issueKey)
		for _, tr := range transitions {
			fmt.Fprintf(&sb, "- **%s** → %s\n", tr.Name, tr.To.Name)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}

	if err := t.client.TransitionIssue(ctx, issueKey, targetStatus); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("transitioning issue: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Transitioned %s to %q.", issueKey, targetStatus)), nil
}
