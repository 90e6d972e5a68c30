package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/jira-bridge/internal/projects"
	"github.com/mark3labs/mcp-go/mcp"
)

// CopyConfigTool handles the jira_copy_project_config MCP tool. It
// duplicates one project's field configuration to another, useful when
// projects on the same instance share a field scheme.
type CopyConfigTool struct {
	store *projects.Store
}

// NewCopyConfigTool creates a CopyConfigTool over the given store.
func NewCopyConfigTool(store *projects.Store) *CopyConfigTool {
	return &CopyConfigTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *CopyConfigTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_copy_project_config",
		mcp.WithDescription(
			"Copy the saved field configuration from one project to another. "+
				"Refuses to replace an existing target configuration unless "+
				"overwrite is true.",
		),
		mcp.WithString("source_project",
			mcp.Required(),
			mcp.Description("Project key to copy from."),
		),
		mcp.WithString("target_project",
			mcp.Required(),
			mcp.Description("Project key to copy to."),
		),
		mcp.WithBoolean("overwrite",
			mcp.Description("Replace the target's existing configuration. Defaults to false."),
		),
	)
}

// Handle processes the jira_copy_project_config tool call.
func (t *CopyConfigTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourceKey, err := projectKeyArg(req, "source_project")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targetKey, err := projectKeyArg(req, "target_project")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if sourceKey == targetKey {
		return mcp.NewToolResultError("source and target project keys are the same"), nil
	}

	// The overwrite guard lives here, not in the store.
	if !req.GetBool("overwrite", false) {
		existing, err := t.store.Get(targetKey)
		if err != nil {
			return nil, fmt.Errorf("checking target config: %w", err)
		}
		if existing != nil {
			return mcp.NewToolResultText(fmt.Sprintf(
				"Project %s already has a field configuration (%d fields, updated %s). "+
					"Re-run with overwrite=true to replace it.",
				targetKey, len(existing.Fields),
				existing.LastUpdated.Format("2006-01-02 15:04"),
			)), nil
		}
	}

	copied, err := t.store.Copy(sourceKey, targetKey)
	if err != nil {
		var cfgErr *projects.ConfigError
		if errors.As(err, &cfgErr) {
			return mcp.NewToolResultError(cfgErr.Message), nil
		}
		return nil, fmt.Errorf("copying config: %w", err)
	}

	response := fmt.Sprintf(
		"# Configuration Copied\n\n"+
			"Copied %d field mappings and %d cached catalog entries from **%s** to **%s**.\n\n%s",
		len(copied.Fields), len(copied.FieldCache), sourceKey, targetKey,
		formatMappingTable(copied.Fields),
	)
	return mcp.NewToolResultText(response), nil
}
