package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// AttachFileTool handles the jira_attach_file MCP tool.
type AttachFileTool struct {
	client JiraAPI
}

// NewAttachFileTool creates the tool with its Jira client.
func NewAttachFileTool(client JiraAPI) *AttachFileTool {
	return &AttachFileTool{client: client}
}

// Definition returns the MCP tool definition for registration.
func (t *AttachFileTool) Definition() mcp.Tool {
	return mcp.NewTool("jira_attach_file",
		mcp.WithDescription("Upload a local file as an attachment on a Jira issue."),
		mcp.WithString("issue_key",
			mcp.Required(),
			mcp.Description("Issue key (e.g. PROJ-123)."),
		),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Absolute path of the file to attach."),
		),
	)
}

// Handle processes the jira_attach_file tool call.
func (t *AttachFileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueKey := req.GetString("issue_key", "")
	filePath := req.GetString("file_path", "")
	if issueKey == "" {
		return mcp.NewToolResultError("'issue_key' is required"), nil
	}
	if filePath == "" {
		return mcp.NewToolResultError("'file_path' is required"), nil
	}

	attachment, err := t.client.UploadAttachment(ctx, issueKey, filePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("uploading attachment: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Attached %s (%d bytes) to %s.", attachment.Filename, attachment.Size, issueKey,
	)), nil
}
