package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/jira-bridge/internal/fields"
	"github.com/HendryAvila/jira-bridge/internal/projects"
	"github.com/mark3labs/mcp-go/mcp"
)

// ConfigureFieldsTool handles the jira_configure_project_fields MCP
// tool. It runs field discovery for one project and persists the
// resulting mapping table.
type ConfigureFieldsTool struct {
	client JiraAPI
	store  *projects.Store
}

// NewConfigureFieldsTool creates the tool with its dependencies.
func NewConfigureFieldsTool(client JiraAPI, store *projects.Store) *ConfigureFieldsTool {
	return &ConfigureFieldsTool{client: client, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ConfigureFieldsTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_configure_project_fields",
		mcp.WithDescription(
			"Discover which Jira custom field ids correspond to semantic fields "+
				"("+strings.Join(fields.KnownFieldNames(), ", ")+") and save the "+
				"mapping for a project. With fields_to_discover, resolves just those "+
				"names; without it, returns the full field catalog under normalized "+
				"names so you can pick associations by hand. Matching is heuristic "+
				"— review the reported confidences and re-run with user_hints if "+
				"a field was misidentified.",
		),
		mcp.WithString("project_key",
			mcp.Required(),
			mcp.Description("Jira project key (e.g. PROJ)."),
		),
		mcp.WithString("fields_to_discover",
			mcp.Description("Comma-separated semantic field names to resolve (e.g. 'storyPoints,epicLink,sprint'). Omit to browse the whole catalog."),
		),
		mcp.WithString("sample_issue_key",
			mcp.Description("Key of a representative issue. Fields populated on it get a confidence boost."),
		),
		mcp.WithString("user_hints",
			mcp.Description("Explicit corrections as comma-separated name=fieldId pairs (e.g. 'storyPoints=customfield_10024'). Hints override discovery and are saved at 100% confidence."),
		),
	)
}

// Handle processes the jira_configure_project_fields tool call.
func (t *ConfigureFieldsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectKey, err := projectKeyArg(req, "project_key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fieldNames := splitCSV(req.GetString("fields_to_discover", ""))

	hints, err := parseUserHints(req.GetString("user_hints", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	discoverer := fields.NewDiscoverer(t.client)
	result, err := discoverer.Discover(ctx, fields.DiscoverOptions{
		ProjectKey:     projectKey,
		SampleIssueKey: req.GetString("sample_issue_key", ""),
		FieldNames:     fieldNames,
	})
	if err != nil {
		// Discovery failed before anything was persisted — the existing
		// config, if any, is untouched.
		return mcp.NewToolResultError(fmt.Sprintf("field discovery failed: %v", err)), nil
	}

	// Merge into any existing config rather than replacing it, so a
	// targeted re-run for one field keeps earlier resolutions.
	cfg, err := t.store.Get(projectKey)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}
	if cfg == nil {
		cfg = projects.NewProjectConfig(projectKey)
	}
	for name, mapping := range result.Mappings {
		cfg.Fields[name] = mapping
	}

	// Explicit corrections win over whatever discovery concluded and
	// persist like any other mapping. Saved at full confidence — the
	// user said so.
	unresolved := result.Unresolved
	for name, fieldID := range hints {
		mapping := projects.FieldMapping{ID: fieldID, Name: fieldID, Type: "string", Confidence: 100}
		for _, field := range result.Catalog {
			if field.ID == fieldID {
				mapping.Name = field.Name
				if ft := field.SchemaType(); ft != "" {
					mapping.Type = ft
				}
				break
			}
		}
		cfg.Fields[name] = mapping
		unresolved = removeName(unresolved, name)
	}

	for _, field := range result.Catalog {
		cfg.FieldCache[field.ID] = field
	}
	if err := t.store.Save(cfg); err != nil {
		return nil, fmt.Errorf("saving project config: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Field Configuration: %s\n\n", projectKey)
	if len(fieldNames) == 0 {
		fmt.Fprintf(&sb, "Explored the full catalog — %d fields recorded under normalized names. "+
			"Fields at 90%% confidence are populated on the sample issue.\n\n", len(result.Mappings))
	} else {
		fmt.Fprintf(&sb, "Resolved %d of %d requested fields.\n\n",
			len(result.Mappings), len(fieldNames))
	}
	if len(hints) > 0 {
		fmt.Fprintf(&sb, "Applied %d user correction(s).\n\n", len(hints))
	}
	sb.WriteString(formatMappingTable(cfg.Fields))

	if len(unresolved) > 0 {
		fmt.Fprintf(&sb, "\n## Unresolved\n\nNo candidate reached the %d%% acceptance threshold for: %s.\n",
			fields.AcceptThreshold, strings.Join(unresolved, ", "))
		sb.WriteString("Run without fields_to_discover to browse the catalog, or set the " +
			"corresponding JIRA_*_FIELD environment variable as an override.\n")
	}
	fmt.Fprintf(&sb, "\nSaved to `%s`.\n", t.store.Dir())

	return mcp.NewToolResultText(sb.String()), nil
}
