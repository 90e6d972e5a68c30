// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the concrete clients and the
// project configuration store and injects them into the tools that
// depend on them. No business logic lives here — only wiring.
package server

import (
	"fmt"

	"github.com/HendryAvila/jira-bridge/internal/config"
	"github.com/HendryAvila/jira-bridge/internal/jira"
	"github.com/HendryAvila/jira-bridge/internal/logging"
	"github.com/HendryAvila/jira-bridge/internal/projects"
	"github.com/HendryAvila/jira-bridge/internal/tools"
	"github.com/HendryAvila/jira-bridge/internal/zephyr"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
// This is the single place where all dependencies are resolved.
func New() (*server.MCPServer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	store := projects.NewStore(cfg.ConfigDir)

	s := server.NewMCPServer(
		"jira-bridge",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Configuration store tools ---
	//
	// These read only local state, so they are registered even with
	// incomplete Jira settings — stored configs stay inspectable.

	listTool := tools.NewListProjectsTool(store)
	s.AddTool(listTool.Definition(), listTool.Handle)

	getCfgTool := tools.NewGetConfigTool(store)
	s.AddTool(getCfgTool.Definition(), getCfgTool.Handle)

	copyTool := tools.NewCopyConfigTool(store)
	s.AddTool(copyTool.Definition(), copyTool.Handle)

	// --- Jira tools ---

	if !cfg.HasJira() {
		logging.Warn("JIRA_URL/JIRA_EMAIL/JIRA_API_TOKEN not set — Jira tools disabled")
		return s, nil
	}
	client := jira.NewClient(cfg.JiraURL, cfg.JiraEmail, cfg.JiraAPIToken)

	checkAuthTool := tools.NewCheckAuthTool(client)
	s.AddTool(checkAuthTool.Definition(), checkAuthTool.Handle)

	configureTool := tools.NewConfigureFieldsTool(client, store)
	s.AddTool(configureTool.Definition(), configureTool.Handle)

	createTool := tools.NewCreateIssueTool(client, store)
	s.AddTool(createTool.Definition(), createTool.Handle)

	getIssueTool := tools.NewGetIssueTool(client, store)
	s.AddTool(getIssueTool.Definition(), getIssueTool.Handle)

	updateTool := tools.NewUpdateIssueTool(client, store)
	s.AddTool(updateTool.Definition(), updateTool.Handle)

	transitionTool := tools.NewTransitionIssueTool(client)
	s.AddTool(transitionTool.Definition(), transitionTool.Handle)

	commentTool := tools.NewAddCommentTool(client)
	s.AddTool(commentTool.Definition(), commentTool.Handle)

	attachTool := tools.NewAttachFileTool(client)
	s.AddTool(attachTool.Definition(), attachTool.Handle)

	searchTool := tools.NewSearchIssuesTool(client)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	// --- Zephyr tools ---
	//
	// The test-management add-on is an independent subsystem: without
	// its credentials the Jira tools work normally and the Zephyr tools
	// are simply not registered.

	if cfg.HasZephyr() {
		zc := zephyr.NewClient(cfg.ZephyrBaseURL, cfg.ZephyrAccessKey,
			cfg.ZephyrSecretKey, cfg.ZephyrAccountID)

		getStepsTool := tools.NewGetTestStepsTool(zc)
		s.AddTool(getStepsTool.Definition(), getStepsTool.Handle)

		addStepTool := tools.NewAddTestStepTool(zc)
		s.AddTool(addStepTool.Definition(), addStepTool.Handle)

		deleteStepTool := tools.NewDeleteTestStepTool(zc)
		s.AddTool(deleteStepTool.Definition(), deleteStepTool.Handle)
	}

	return s, nil
}

// serverInstructions returns the system instructions that tell the AI
// how to use the bridge effectively.
func serverInstructions() string {
	return `You have access to jira-bridge, an MCP server for Jira Cloud and the
Zephyr test-step add-on.

## FIELD CONFIGURATION — READ THIS FIRST

Jira exposes business data (story points, epic links, sprints, acceptance
criteria, …) through per-instance custom fields with opaque ids like
customfield_10016. Before setting such fields, the project needs a saved
field configuration:

1. Call jira_configure_project_fields with the project key and the
   semantic fields you need, e.g.
   fields_to_discover="storyPoints,epicLink,sprint,acceptanceCriteria".
   Pass sample_issue_key with a representative, well-filled issue when you
   can — fields actually populated on it score higher.
2. Review the returned confidences. Matching is heuristic: 100% means an
   exact name match or a user correction, lower values mean pattern or
   fuzzy matches. If a field resolved to the wrong id, browse the catalog
   (run without fields_to_discover), confirm the right field with the
   user, then re-run with user_hints, e.g.
   user_hints="storyPoints=customfield_10024" — the correction is saved
   and overrides the heuristic match.
3. Candidates below the acceptance threshold are left unresolved on
   purpose — the bridge never guesses. Ask the user, or fall back to a
   JIRA_*_FIELD environment override.

Field configurations persist per project and survive restarts. Projects
sharing a field scheme can share one: use jira_copy_project_config.

## TYPICAL WORKFLOWS

- First contact with an instance: jira_check_auth, then
  jira_configure_project_fields for the project you'll work in.
- Creating work items: jira_create_issue with semantic custom fields
  (story_points, epic_link, sprint_id, acceptance_criteria). If the call
  reports unresolved field mappings, it names ALL of them at once —
  configure them in one pass rather than retrying field by field.
- Reading: jira_get_issue shows mapped custom fields under their semantic
  names; jira_search_issues takes raw JQL.
- Workflow: jira_transition_issue without target_status lists what is
  possible; with it, performs the move.
- Tests: zephyr_get_test_steps / zephyr_add_test_step operate on Test
  issues by numeric id (jira_get_issue shows the id).

## IMPORTANT RULES

- Never invent customfield_* ids. Resolve through the configuration or
  ask the user.
- When discovery reports low confidence, tell the user which Jira field
  was matched and why, and let them confirm.
- Issue keys are PROJECT-123; project keys are the uppercase prefix.`
}
