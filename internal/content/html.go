package content

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/Tiag8/bible-study-sub001/internal/links"
	htmlpkg "golang.org/x/net/html"
)

// RenderHTML renders the document to the inline HTML the editor displays.
// Mark attributes become data attributes on the rendered element, the
// addressable form the parser reads back.
func (d *Document) RenderHTML() string {
	var sb strings.Builder
	for _, span := range d.Spans {
		text := html.EscapeString(span.Text)

		if attrs, ok := span.MarkAttrs(MarkComment); ok {
			text = fmt.Sprintf(
				`<span data-comment-id="%s" data-comment-text="%s" data-created-at="%s">%s</span>`,
				html.EscapeString(attrs[AttrCommentID]),
				html.EscapeString(attrs[AttrCommentText]),
				html.EscapeString(attrs[AttrCreatedAt]),
				text,
			)
		}

		if attrs, ok := span.MarkAttrs(MarkReference); ok {
			studyID := attrs[AttrStudyID]
			text = fmt.Sprintf(
				`<a href="%s" data-study-id="%s">%s</a>`,
				html.EscapeString(links.StudyPath(studyID)),
				html.EscapeString(studyID),
				text,
			)
		}

		sb.WriteString(text)
	}

	return sb.String()
}

// ParseHTML rebuilds a document from rendered inline HTML. Only the
// elements RenderHTML emits are recognized, anything else contributes its
// text content as a plain span.
func ParseHTML(rendered string) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return nil, err
	}

	doc := &Document{Type: "doc"}

	gq.Find("body").Contents().Each(func(_ int, sel *goquery.Selection) {
		span := parseSpan(sel)
		if span != nil && span.Text != "" {
			doc.Spans = append(doc.Spans, span)
		}
	})

	return doc, nil
}

func parseSpan(sel *goquery.Selection) *Span {
	node := sel.Get(0)
	if node == nil {
		return nil
	}

	// plain text between marked elements
	if node.Type != htmlpkg.ElementNode {
		return &Span{Text: sel.Text()}
	}

	span := &Span{Text: sel.Text()}

	if studyID, ok := sel.Attr("data-study-id"); ok {
		span.Marks = append(span.Marks, NewReferenceMark(studyID))
	}

	comment := sel
	if !commentAttrsPresent(comment) {
		comment = sel.Find("[data-comment-id]").First()
	}
	if commentAttrsPresent(comment) {
		id, _ := comment.Attr("data-comment-id")
		text, _ := comment.Attr("data-comment-text")
		createdAt, _ := comment.Attr("data-created-at")
		span.Marks = append(span.Marks, NewCommentMark(id, text, createdAt))
	}

	return span
}

func commentAttrsPresent(sel *goquery.Selection) bool {
	if sel.Length() == 0 {
		return false
	}
	_, ok := sel.Attr("data-comment-id")
	return ok
}

// RewriteLinks normalizes the anchors of a rendered document. Legacy
// bible-graph:// hrefs are rewritten to the internal route, internal-route
// anchors are tagged data-internal="true" so the client can intercept the
// click, external http/https anchors are left untouched. Each anchor is
// rewritten once regardless of nested children.
func RewriteLinks(rendered string) (string, error) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return "", err
	}

	gq.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")

		route, ok := links.ResolveHref(href)
		if !ok || !route.Internal {
			return
		}

		sel.SetAttr("href", route.Path)
		sel.SetAttr("data-internal", "true")
	})

	return gq.Find("body").Html()
}
