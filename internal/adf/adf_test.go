package adf

import (
	"encoding/json"
	"testing"
)

func TestFromText(t *testing.T) {
	doc := FromText("First paragraph.\n\nSecond paragraph.")

	if doc.Version != 1 || doc.Type != "doc" {
		t.Errorf("root node = version %d type %q, want version 1 type doc", doc.Version, doc.Type)
	}
	if len(doc.Content) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(doc.Content))
	}
	para := doc.Content[0]
	if para.Type != "paragraph" || len(para.Content) != 1 {
		t.Fatalf("unexpected paragraph shape: %+v", para)
	}
	if para.Content[0].Type != "text" || para.Content[0].Text != "First paragraph." {
		t.Errorf("text node = %+v", para.Content[0])
	}
}

func TestFromTextEmptyInput(t *testing.T) {
	doc := FromText("")
	if len(doc.Content) != 0 {
		t.Errorf("empty input produced %d nodes", len(doc.Content))
	}
}

func TestFromTextSkipsBlankParagraphs(t *testing.T) {
	doc := FromText("One.\n\n\n\n   \n\nTwo.")
	if len(doc.Content) != 2 {
		t.Errorf("got %d paragraphs, want 2", len(doc.Content))
	}
}

func TestPlainTextRoundTrip(t *testing.T) {
	doc := FromText("One.\n\nTwo.")
	if got := doc.PlainText(); got != "One.\nTwo." {
		t.Errorf("PlainText = %q", got)
	}
}

func TestPlainTextNilDocument(t *testing.T) {
	var doc *Document
	if got := doc.PlainText(); got != "" {
		t.Errorf("PlainText on nil = %q, want empty", got)
	}
}

func TestDocumentJSONShape(t *testing.T) {
	data, err := json.Marshal(FromText("Hello"))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"version":1,"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"Hello"}]}]}`
	if string(data) != want {
		t.Errorf("marshaled document = %s, want %s", data, want)
	}
}
