package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/jira-bridge/internal/projects"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListProjectsTool handles the jira_list_configured_projects MCP tool.
type ListProjectsTool struct {
	store *projects.Store
}

// NewListProjectsTool creates a ListProjectsTool over the given store.
func NewListProjectsTool(store *projects.Store) *ListProjectsTool {
	return &ListProjectsTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_list_configured_projects",
		mcp.WithDescription(
			"List every project with a saved field configuration, with last "+
				"update time and the semantic fields each one has mapped.",
		),
	)
}

// Handle processes the jira_list_configured_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := t.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing project configs: %w", err)
	}
	if len(summaries) == 0 {
		return mcp.NewToolResultText(
			"No projects configured yet. Run `jira_configure_project_fields` for a project to get started.",
		), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Configured Projects (%d)\n\n", len(summaries))
	sb.WriteString("| Project | Fields | Last Updated | Mapped Fields |\n")
	sb.WriteString("|---------|--------|--------------|---------------|\n")
	for _, s := range summaries {
		names := strings.Join(s.FieldNames, ", ")
		if names == "" {
			names = "—"
		}
		fmt.Fprintf(&sb, "| %s | %d | %s | %s |\n",
			s.ProjectKey, s.FieldCount,
			s.LastUpdated.Format("2006-01-02 15:04"), names)
	}
	return mcp.NewToolResultText(sb.String()), nil
}
