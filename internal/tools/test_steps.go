package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/jira-bridge/internal/zephyr"
	"github.com/mark3labs/mcp-go/mcp"
)

// ZephyrAPI is the slice of the Zephyr client the tools use.
type ZephyrAPI interface {
	GetTestSteps(ctx context.Context, issueID, projectID string) ([]zephyr.TestStep, error)
	AddTestStep(ctx context.Context, issueID, projectID string, step zephyr.TestStep) (*zephyr.TestStep, error)
	DeleteTestStep(ctx context.Context, issueID, stepID, projectID string) error
}

// GetTestStepsTool handles the zephyr_get_test_steps MCP tool.
type GetTestStepsTool struct {
	client ZephyrAPI
}

// NewGetTestStepsTool creates the tool with its Zephyr client.
func NewGetTestStepsTool(client ZephyrAPI) *GetTestStepsTool {
	return &GetTestStepsTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *GetTestStepsTool) Definition() mcp.Tool {
	return mcp.NewTool("zephyr_get_test_steps",
		mcp.WithDescription("List the Zephyr test steps attached to a Test issue."),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Numeric Jira issue id of the Test issue (not the key — use jira_get_issue to look it up)."),
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Numeric Jira project id."),
		),
	)
}

// Handle processes the zephyr_get_test_steps tool call.
func (t *GetTestStepsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueID := req.GetString("issue_id", "")
	projectID := req.GetString("project_id", "")
	if issueID == "" || projectID == "" {
		return mcp.NewToolResultError("'issue_id' and 'project_id' are required"), nil
	}

	steps, err := t.client.GetTestSteps(ctx, issueID, projectID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetching test steps: %v", err)), nil
	}
	if len(steps) == 0 {
		return mcp.NewToolResultText("No test steps on this issue."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Test Steps (%d)\n\n", len(steps))
	for i, step := range steps {
		fmt.Fprintf(&sb, "%d. **%s**", i+1, step.Step)
		if step.ID != "" {
			fmt.Fprintf(&sb, " (id %s)", step.ID)
		}
		sb.WriteString("\n")
		if step.Data != "" {
			fmt.Fprintf(&sb, "   - Data: %s\n", step.Data)
		}
		if step.Result != "" {
			fmt.Fprintf(&sb, "   - Expected: %s\n", step.Result)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// AddTestStepTool handles the zephyr_add_test_step MCP tool.
type AddTestStepTool struct {
	client ZephyrAPI
}

// NewAddTestStepTool creates the tool with its Zephyr client.
func NewAddTestStepTool(client ZephyrAPI) *AddTestStepTool {
	return &AddTestStepTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *AddTestStepTool) Definition() mcp.Tool {
	return mcp.NewTool("zephyr_add_test_step",
		mcp.WithDescription("Append one test step to a Zephyr Test issue."),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Numeric Jira issue id of the Test issue."),
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Numeric Jira project id."),
		),
		mcp.WithString("step",
			mcp.Required(),
			mcp.Description("The action to perform."),
		),
		mcp.WithString("data",
			mcp.Description("Test data for the step."),
		),
		mcp.WithString("result",
			mcp.Description("Expected result."),
		),
	)
}

// Handle processes the zephyr_add_test_step tool call.
func (t *AddTestStepTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueID := req.GetString("issue_id", "")
	projectID := req.GetString("project_id", "")
	stepText := req.GetString("step", "")
	if issueID == "" || projectID == "" {
		return mcp.NewToolResultError("'issue_id' and 'project_id' are required"), nil
	}
	if stepText == "" {
		return mcp.NewToolResultError("'step' is required"), nil
	}

	created, err := t.client.AddTestStep(ctx, issueID, projectID, zephyr.TestStep{
		Step:   stepText,
		Data:   req.GetString("data", ""),
		Result: req.GetString("result", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("adding test step: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Test step added (id %s).", created.ID)), nil
}

// DeleteTestStepTool handles the zephyr_delete_test_step MCP tool.
type DeleteTestStepTool struct {
	client ZephyrAPI
}

// NewDeleteTestStepTool creates the tool with its Zephyr client.
func NewDeleteTestStepTool(client ZephyrAPI) *DeleteTestStepTool {
	return &DeleteTestStepTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteTestStepTool) Definition() mcp.Tool {
	return mcp.NewTool("zephyr_delete_test_step",
		mcp.WithDescription("Remove one test step from a Zephyr Test issue."),
		mcp.WithString("issue_id",
			mcp.Required(),
			mcp.Description("Numeric Jira issue id of the Test issue."),
		),
		mcp.WithString("step_id",
			mcp.Required(),
			mcp.Description("Id of the step to delete (shown by zephyr_get_test_steps)."),
		),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("Numeric Jira project id."),
		),
	)
}

// Handle processes the zephyr_delete_test_step tool call.
func (t *DeleteTestStepTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueID := req.GetString("issue_id", "")
	stepID := req.GetString("step_id", "")
	projectID := req.GetString("project_id", "")
	if issueID == "" || stepID == "" || projectID == "" {
		return mcp.NewToolResultError("'issue_id', 'step_id', and 'project_id' are required"), nil
	}

	if err := t.client.DeleteTestStep(ctx, issueID, stepID, projectID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("deleting test step: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Test step %s deleted.", stepID)), nil
}
