// Package adf builds Atlassian Document Format documents.
//
// Jira Cloud's v3 REST API requires descriptions and comment bodies as ADF
// rather than plain text or wiki markup. Only the node types the bridge
// actually emits are modeled — paragraphs of plain text — which keeps the
// builders small and the payloads strongly typed.
package adf

import "strings"

// Document is the root ADF node.
type Document struct {
	Version int    `json:"version"`
	Type    string `json:"type"`
	Content []Node `json:"content"`
}

// Node is any ADF content node. Text and Content are mutually exclusive:
// leaf text nodes carry Text, block nodes carry Content.
type Node struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content []Node `json:"content,omitempty"`
}

// Paragraph wraps text in a single paragraph node.
func Paragraph(text string) Node {
	return Node{
		Type:    "paragraph",
		Content: []Node{{Type: "text", Text: text}},
	}
}

// FromText converts plain text into an ADF document, splitting on blank
// lines so multi-paragraph input renders as separate paragraphs. Empty
// input yields a document with no content nodes, which Jira accepts.
func FromText(text string) *Document {
	doc := &Document{Version: 1, Type: "doc"}
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		doc.Content = append(doc.Content, Paragraph(para))
	}
	return doc
}

// PlainText flattens a document back to plain text, one line per
// paragraph. Used when rendering fetched issues for the LLM client.
func (d *Document) PlainText() string {
	if d == nil {
		return ""
	}
	var parts []string
	for _, node := range d.Content {
		if text := nodeText(node); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

func nodeText(n Node) string {
	if n.Text != "" {
		return n.Text
	}
	var sb strings.Builder
	for _, child := range n.Content {
		sb.WriteString(nodeText(child))
	}
	return sb.String()
}
