// Package jira is a thin client for the Jira Cloud v3 REST API.
//
// It covers the endpoints the bridge needs: the field catalog, issue
// CRUD, workflow transitions, comments, attachments, and JQL search.
// Request payloads are built by the typed builders in requests.go —
// handlers never assemble raw JSON maps.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client talks to one Jira Cloud instance with basic auth
// (email + API token).
type Client struct {
	baseURL  string
	email    string
	apiToken string
	http     *http.Client
}

// NewClient creates a Jira client. baseURL is the instance root
// (e.g. https://acme.atlassian.net) with no trailing slash.
func NewClient(baseURL, email, apiToken string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		email:    email,
		apiToken: apiToken,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Myself verifies credentials and returns the authenticated user.
func (c *Client) Myself(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/rest/api/3/myself", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListFields fetches the full field catalog for the instance. The catalog
// is instance-wide, not project-scoped, and has no pagination.
func (c *Client) ListFields(ctx context.Context) ([]Field, error) {
	var fields []Field
	if err := c.get(ctx, "/rest/api/3/field", nil, &fields); err != nil {
		return nil, fmt.Errorf("listing fields: %w", err)
	}
	return fields, nil
}

// GetIssue fetches one issue by key with all its field values.
func (c *Client) GetIssue(ctx context.Context, issueKey string) (*Issue, error) {
	var issue Issue
	path := "/rest/api/3/issue/" + url.PathEscape(issueKey)
	if err := c.get(ctx, path, nil, &issue); err != nil {
		return nil, fmt.Errorf("fetching issue %s: %w", issueKey, err)
	}
	return &issue, nil
}

// CreateIssue creates an issue and returns its id and key.
func (c *Client) CreateIssue(ctx context.Context, req *IssueRequest) (*CreatedIssue, error) {
	var created CreatedIssue
	if err := c.send(ctx, http.MethodPost, "/rest/api/3/issue", req, http.StatusCreated, &created); err != nil {
		return nil, fmt.Errorf("creating issue: %w", err)
	}
	return &created, nil
}

// UpdateIssue applies a partial field update to an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, issueKey string, req *IssueRequest) error {
	path := "/rest/api/3/issue/" + url.PathEscape(issueKey)
	if err := c.send(ctx, http.MethodPut, path, req, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("updating issue %s: %w", issueKey, err)
	}
	return nil
}

// ListTransitions returns the workflow transitions currently available
// for an issue.
func (c *Client) ListTransitions(ctx context.Context, issueKey string) ([]Transition, error) {
	var resp struct {
		Transitions []Transition `json:"transitions"`
	}
	path := "/rest/api/3/issue/" + url.PathEscape(issueKey) + "/transitions"
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing transitions for %s: %w", issueKey, err)
	}
	return resp.Transitions, nil
}

// TransitionIssue moves an issue to the workflow state named targetStatus.
// The match against transition names and destination statuses is
// case-insensitive.
func (c *Client) TransitionIssue(ctx context.Context, issueKey, targetStatus string) error {
	transitions, err := c.ListTransitions(ctx, issueKey)
	if err != nil {
		return err
	}

	var transitionID string
	want := strings.ToLower(targetStatus)
	for _, t := range transitions {
		if strings.ToLower(t.Name) == want || strings.ToLower(t.To.Name) == want {
			transitionID = t.ID
			break
		}
	}
	if transitionID == "" {
		names := make([]string, len(transitions))
		for i, t := range transitions {
			names[i] = t.Name
		}
		return fmt.Errorf("no transition to %q for %s (available: %s)",
			targetStatus, issueKey, strings.Join(names, ", "))
	}

	path := "/rest/api/3/issue/" + url.PathEscape(issueKey) + "/transitions"
	req := BuildTransitionRequest(transitionID)
	if err := c.send(ctx, http.MethodPost, path, req, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("transitioning %s to %q: %w", issueKey, targetStatus, err)
	}
	return nil
}

// AddComment posts a comment on an issue.
func (c *Client) AddComment(ctx context.Context, issueKey, body string) error {
	path := "/rest/api/3/issue/" + url.PathEscape(issueKey) + "/comment"
	req := BuildCommentRequest(body)
	if err := c.send(ctx, http.MethodPost, path, req, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("commenting on %s: %w", issueKey, err)
	}
	return nil
}

// SearchIssues runs a JQL query.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int) (*SearchResult, error) {
	if maxResults <= 0 {
		maxResults = 25
	}
	query := url.Values{
		"jql":        {jql},
		"maxResults": {fmt.Sprintf("%d", maxResults)},
	}
	var result SearchResult
	if err := c.get(ctx, "/rest/api/3/search", query, &result); err != nil {
		return nil, fmt.Errorf("searching issues: %w", err)
	}
	return &result, nil
}

// UploadAttachment attaches a local file to an issue.
func (c *Client) UploadAttachment(ctx context.Context, issueKey, filePath string) (*Attachment, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening attachment: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("building multipart form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	path := "/rest/api/3/issue/" + url.PathEscape(issueKey) + "/attachments"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.SetBasicAuth(c.email, c.apiToken)
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	// Required by Jira to bypass XSRF protection on multipart uploads.
	httpReq.Header.Set("X-Atlassian-Token", "no-check")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("uploading attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	// Jira returns an array even for a single upload.
	var attachments []Attachment
	if err := json.NewDecoder(resp.Body).Decode(&attachments); err != nil {
		return nil, fmt.Errorf("parsing attachment response: %w", err)
	}
	if len(attachments) == 0 {
		return nil, fmt.Errorf("attachment upload returned empty response")
	}
	return &attachments[0], nil
}

// get performs a GET with basic auth and decodes a 200 JSON response.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// send performs a JSON-bodied request and optionally decodes the response.
func (c *Client) send(ctx context.Context, method, path string, payload any, wantStatus int, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return apiError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

// apiError turns a non-success response into an error carrying the
// status and Jira's error body, which usually names the offending field.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("jira API %d: %s", resp.StatusCode, msg)
}
