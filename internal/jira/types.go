package jira

import "encoding/json"

// Field is one entry from Jira's field catalog (GET /rest/api/3/field).
// It is an immutable snapshot: cached in project configs, never mutated.
type Field struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Custom      bool     `json:"custom,omitempty"`
	ClauseNames []string `json:"clauseNames,omitempty"`
	Schema      *Schema  `json:"schema,omitempty"`
}

// Schema describes a field's value type. Custom identifies vendor-specific
// field kinds (e.g. "com.pyxis.greenhopper.jira:gh-epic-link").
type Schema struct {
	Type   string `json:"type,omitempty"`
	Items  string `json:"items,omitempty"`
	Custom string `json:"custom,omitempty"`
}

// SchemaType returns the schema type, or "" when the field has no schema.
func (f Field) SchemaType() string {
	if f.Schema == nil {
		return ""
	}
	return f.Schema.Type
}

// CustomType returns the fully-qualified custom type identifier, or "".
func (f Field) CustomType() string {
	if f.Schema == nil {
		return ""
	}
	return f.Schema.Custom
}

// Issue is a fetched Jira issue. Fields holds the raw per-field values
// keyed by field id, so callers can inspect custom fields the static
// struct below doesn't know about.
type Issue struct {
	ID     string                     `json:"id"`
	Key    string                     `json:"key"`
	Fields map[string]json.RawMessage `json:"fields"`
}

// FieldsInUse returns the set of field ids that hold a non-null value on
// this issue. Used as a corroborating signal during field discovery.
func (i *Issue) FieldsInUse() map[string]bool {
	inUse := make(map[string]bool, len(i.Fields))
	for id, raw := range i.Fields {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		inUse[id] = true
	}
	return inUse
}

// StringField decodes the named field as a string. Returns "" when the
// field is absent, null, or not a string.
func (i *Issue) StringField(id string) string {
	raw, ok := i.Fields[id]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// NamedField decodes the named field as an object and returns its "name"
// property — the shape Jira uses for status, issue type, and priority.
func (i *Issue) NamedField(id string) string {
	raw, ok := i.Fields[id]
	if !ok {
		return ""
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	return obj.Name
}

// Transition is one available workflow transition for an issue.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	To   struct {
		Name string `json:"name"`
	} `json:"to"`
}

// SearchResult is the response of a JQL search.
type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// User is the authenticated Jira user (GET /rest/api/3/myself).
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// CreatedIssue is the response of a successful issue creation.
type CreatedIssue struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// Attachment describes one uploaded attachment.
type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}
