// Package zephyr is a client for the Zephyr Squad Cloud test-step API.
//
// Zephyr's API does not use Jira's basic auth: every request carries a
// JWT whose qsh claim is a SHA-256 hash of the canonical request
// (method, path, sorted query string), signed with the tenant's shared
// secret. See qsh.go for the canonicalization.
package zephyr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// tokenTTL is the validity window stamped into each request token.
const tokenTTL = 360 * time.Second

// Client talks to one Zephyr Squad Cloud tenant.
type Client struct {
	baseURL   string
	accessKey string
	secretKey string
	accountID string
	http      *http.Client
	now       func() time.Time
}

// NewClient creates a Zephyr client. baseURL is the Zephyr connect app
// base (e.g. https://prod-api.zephyr4jiracloud.com/connect).
func NewClient(baseURL, accessKey, secretKey, accountID string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		secretKey: secretKey,
		accountID: accountID,
		http:      &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}
}

// TestStep is one step of a test issue.
type TestStep struct {
	ID     string `json:"id,omitempty"`
	Step   string `json:"step"`
	Data   string `json:"data,omitempty"`
	Result string `json:"result,omitempty"`
}

// GetTestSteps lists the steps attached to a test issue.
func (c *Client) GetTestSteps(ctx context.Context, issueID, projectID string) ([]TestStep, error) {
	path := "/public/rest/api/1.0/teststep/" + url.PathEscape(issueID)
	query := url.Values{"projectId": {projectID}}

	var resp struct {
		TestSteps []TestStep `json:"testSteps"`
	}
	if err := c.do(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching test steps for issue %s: %w", issueID, err)
	}
	return resp.TestSteps, nil
}

// AddTestStep appends one step to a test issue.
func (c *Client) AddTestStep(ctx context.Context, issueID, projectID string, step TestStep) (*TestStep, error) {
	path := "/public/rest/api/1.0/teststep/" + url.PathEscape(issueID)
	query := url.Values{"projectId": {projectID}}

	var created TestStep
	if err := c.do(ctx, http.MethodPost, path, query, step, &created); err != nil {
		return nil, fmt.Errorf("adding test step to issue %s: %w", issueID, err)
	}
	return &created, nil
}

// DeleteTestStep removes one step from a test issue.
func (c *Client) DeleteTestStep(ctx context.Context, issueID, stepID, projectID string) error {
	path := "/public/rest/api/1.0/teststep/" + url.PathEscape(issueID) + "/" + url.PathEscape(stepID)
	query := url.Values{"projectId": {projectID}}

	if err := c.do(ctx, http.MethodDelete, path, query, nil, nil); err != nil {
		return fmt.Errorf("deleting test step %s from issue %s: %w", stepID, issueID, err)
	}
	return nil
}

// do signs and sends one request. Every call gets a fresh token because
// the qsh claim binds the token to the specific method, path, and query.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	token, err := c.signRequest(method, path, query)
	if err != nil {
		return fmt.Errorf("signing request: %w", err)
	}
	req.Header.Set("Authorization", "JWT "+token)
	req.Header.Set("zapiAccessKey", c.accessKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(data))
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("zephyr API %d: %s", resp.StatusCode, msg)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}
