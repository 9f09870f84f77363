package content

import (
	"encoding/json"
	"strings"
)

// Mark types supported by the editor document model.
const (
	MarkComment   = "comment"
	MarkReference = "reference"
)

// Mark attribute keys. They are also the data attributes the marks
// serialize into when the document is rendered, so a saved document can be
// reloaded without loss.
const (
	AttrCommentID   = "commentId"
	AttrCommentText = "commentText"
	AttrCreatedAt   = "createdAt"
	AttrStudyID     = "studyId"
)

// Mark is inline metadata attached to a span of text.
type Mark struct {
	Type  string            `json:"type"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Span is a run of text sharing the same set of marks.
type Span struct {
	Text  string  `json:"text"`
	Marks []*Mark `json:"marks,omitempty"`
}

// Document is the structured content of a study body: an ordered sequence
// of marked spans. The JSON encoding is the persisted form.
type Document struct {
	Type  string  `json:"type"`
	Spans []*Span `json:"content"`
}

// NewDocument builds a document holding the given plain text.
func NewDocument(text string) *Document {
	doc := &Document{Type: "doc"}
	if text != "" {
		doc.Spans = []*Span{{Text: text}}
	}
	return doc
}

// NewCommentMark builds a comment annotation mark.
func NewCommentMark(commentID, commentText, createdAt string) *Mark {
	return &Mark{
		Type: MarkComment,
		Attrs: map[string]string{
			AttrCommentID:   commentID,
			AttrCommentText: commentText,
			AttrCreatedAt:   createdAt,
		},
	}
}

// NewReferenceMark builds an internal study link mark.
func NewReferenceMark(studyID string) *Mark {
	return &Mark{
		Type: MarkReference,
		Attrs: map[string]string{
			AttrStudyID: studyID,
		},
	}
}

// Marshal serializes the document to its persisted JSON form.
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

// Unmarshal parses a persisted document.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// PlainText returns the document text without marks, used for search
// indexing.
func (d *Document) PlainText() string {
	var sb strings.Builder
	for _, span := range d.Spans {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

// Len returns the document length in bytes of text.
func (d *Document) Len() int {
	n := 0
	for _, span := range d.Spans {
		n += len(span.Text)
	}
	return n
}

func (s *Span) hasMark(markType string) bool {
	for _, m := range s.Marks {
		if m.Type == markType {
			return true
		}
	}
	return false
}

// MarkAttrs returns the attributes of the first mark of the given type on
// the span.
func (s *Span) MarkAttrs(markType string) (map[string]string, bool) {
	for _, m := range s.Marks {
		if m.Type == markType {
			return m.Attrs, true
		}
	}
	return nil, false
}

func cloneMarks(marks []*Mark) []*Mark {
	if len(marks) == 0 {
		return nil
	}
	out := make([]*Mark, 0, len(marks))
	for _, m := range marks {
		attrs := make(map[string]string, len(m.Attrs))
		for k, v := range m.Attrs {
			attrs[k] = v
		}
		out = append(out, &Mark{Type: m.Type, Attrs: attrs})
	}
	return out
}
