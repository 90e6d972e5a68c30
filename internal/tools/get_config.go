package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/jira-bridge/internal/projects"
	"github.com/mark3labs/mcp-go/mcp"
)

// GetConfigTool handles the jira_get_project_config MCP tool.
type GetConfigTool struct {
	store *projects.Store
}

// NewGetConfigTool creates a GetConfigTool over the given store.
func NewGetConfigTool(store *projects.Store) *GetConfigTool {
	return &GetConfigTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *GetConfigTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_get_project_config",
		mcp.WithDescription(
			"Show the saved field mapping table for one project: which Jira "+
				"field id each semantic field resolves to, with confidences.",
		),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Jira project key (e.g. PROJ)."),
		),
	)
}

// Handle processes the jira_get_project_config tool call.
func (t *GetConfigTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectKey, err := projectKeyArg(req, "project_key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cfg, err := t.store.Get(projectKey)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	if cfg == nil {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Project %s is not configured. Run `jira_configure_project_fields` to discover its fields.",
			projectKey,
		)), nil
	}

	response := fmt.Sprintf(
		"# Project Configuration: %s\n\n"+
			"**Last updated:** %s\n"+
			"**Configured fields:** %d\n"+
			"**Cached catalog fields:** %d\n\n"+
			"%s",
		cfg.ProjectKey,
		cfg.LastUpdated.Format("2006-01-02 15:04:05 MST"),
		len(cfg.Fields),
		len(cfg.FieldCache),
		formatMappingTable(cfg.Fields),
	)
	return mcp.NewToolResultText(response), nil
}
