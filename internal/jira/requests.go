package jira

import "github.com/HendryAvila/jira-bridge/internal/adf"

// IssueRequest is the payload shape for issue create and update calls.
// Fields is keyed by Jira field id (or well-known name like "summary").
type IssueRequest struct {
	Fields map[string]any `json:"fields"`
}

// IssueInput holds the caller-facing inputs for building an issue
// payload. CustomFields is keyed by resolved field id — the semantic
// name → field id substitution happens in one place (SetCustomField /
// the caller's resolver pass), never scattered across handlers.
type IssueInput struct {
	ProjectKey  string
	Summary     string
	IssueType   string
	Description string
	Labels      []string
	Priority    string
	AssigneeID  string
	DueDate     string

	CustomFields map[string]any
}

// BuildIssueRequest turns an IssueInput into the wire payload. Zero-value
// inputs are omitted so the same builder serves both create (full) and
// update (partial) calls.
func BuildIssueRequest(in IssueInput) *IssueRequest {
	fields := make(map[string]any)

	if in.ProjectKey != "" {
		fields["project"] = map[string]string{"key": in.ProjectKey}
	}
	if in.Summary != "" {
		fields["summary"] = in.Summary
	}
	if in.IssueType != "" {
		fields["issuetype"] = map[string]string{"name": in.IssueType}
	}
	if in.Description != "" {
		fields["description"] = adf.FromText(in.Description)
	}
	if len(in.Labels) > 0 {
		fields["labels"] = in.Labels
	}
	if in.Priority != "" {
		fields["priority"] = map[string]string{"name": in.Priority}
	}
	if in.AssigneeID != "" {
		fields["assignee"] = map[string]string{"accountId": in.AssigneeID}
	}
	if in.DueDate != "" {
		fields["duedate"] = in.DueDate
	}
	for id, value := range in.CustomFields {
		fields[id] = value
	}

	return &IssueRequest{Fields: fields}
}

// SetCustomField records a value under a resolved field id. Values for
// text-bodied custom fields (type "string" paragraphs) pass through as
// plain strings — Jira accepts both representations on v3.
func (in *IssueInput) SetCustomField(fieldID string, value any) {
	if in.CustomFields == nil {
		in.CustomFields = make(map[string]any)
	}
	in.CustomFields[fieldID] = value
}

// TransitionRequest is the payload for a workflow transition.
type TransitionRequest struct {
	Transition struct {
		ID string `json:"id"`
	} `json:"transition"`
}

// BuildTransitionRequest builds a transition payload for the given id.
func BuildTransitionRequest(transitionID string) *TransitionRequest {
	var req TransitionRequest
	req.Transition.ID = transitionID
	return &req
}

// CommentRequest is the payload for adding a comment.
type CommentRequest struct {
	Body *adf.Document `json:"body"`
}

// BuildCommentRequest wraps plain text into an ADF comment payload.
func BuildCommentRequest(text string) *CommentRequest {
	return &CommentRequest{Body: adf.FromText(text)}
}
