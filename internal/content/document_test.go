package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommentMarkRoundTrip(t *testing.T) {
	doc := NewDocument("No princípio criou Deus os céus e a terra.")

	mark := NewCommentMark("c-1", "conferir com João 1:1", "2024-03-10T12:00:00Z")
	err := doc.AddMark(3, 12, mark)
	assert.NoError(t, err)

	data, err := doc.Marshal()
	assert.NoError(t, err)

	parsed, err := Unmarshal(data)
	assert.NoError(t, err)
	assert.Equal(t, doc.PlainText(), parsed.PlainText())

	var found map[string]string
	for _, span := range parsed.Spans {
		if attrs, ok := span.MarkAttrs(MarkComment); ok {
			found = attrs
		}
	}

	assert.NotNil(t, found)
	assert.Equal(t, "c-1", found[AttrCommentID])
	assert.Equal(t, "conferir com João 1:1", found[AttrCommentText])
	assert.Equal(t, "2024-03-10T12:00:00Z", found[AttrCreatedAt])
}

func TestAddMarkRejectsSameTypeOverlap(t *testing.T) {
	doc := NewDocument("abcdefghij")

	err := doc.AddMark(0, 5, NewCommentMark("c-1", "primeiro", "t1"))
	assert.NoError(t, err)

	before, err := doc.Marshal()
	assert.NoError(t, err)

	// overlapping same-type mark is rejected and the document unchanged
	err = doc.AddMark(3, 8, NewCommentMark("c-2", "segundo", "t2"))
	assert.ErrorIs(t, err, ErrMarkOverlap)

	after, err := doc.Marshal()
	assert.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))

	// the rejected mark must not even split spans
	texts := make([]string, 0, len(doc.Spans))
	for _, span := range doc.Spans {
		texts = append(texts, span.Text)
	}
	assert.Equal(t, []string{"abcde", "fghij"}, texts)

	// a different mark type on the same range is fine
	err = doc.AddMark(3, 8, NewReferenceMark("study-1"))
	assert.NoError(t, err)

	// same type on a disjoint range is fine
	err = doc.AddMark(5, 10, NewCommentMark("c-3", "terceiro", "t3"))
	assert.NoError(t, err)
}

func TestAddMarkBounds(t *testing.T) {
	doc := NewDocument("abc")

	assert.ErrorIs(t, doc.AddMark(-1, 2, NewReferenceMark("s")), ErrRangeOutOfBounds)
	assert.ErrorIs(t, doc.AddMark(0, 4, NewReferenceMark("s")), ErrRangeOutOfBounds)
	assert.ErrorIs(t, doc.AddMark(2, 2, NewReferenceMark("s")), ErrRangeOutOfBounds)
}

func TestRemoveMark(t *testing.T) {
	doc := NewDocument("abcdefghij")

	assert.NoError(t, doc.AddMark(2, 6, NewCommentMark("c-1", "x", "t")))
	assert.NoError(t, doc.RemoveMark(2, 6, MarkComment))

	for _, span := range doc.Spans {
		_, ok := span.MarkAttrs(MarkComment)
		assert.False(t, ok)
	}

	// text is preserved across split and strip
	assert.Equal(t, "abcdefghij", doc.PlainText())
}

func TestPlainTextAndLen(t *testing.T) {
	doc := NewDocument("abcdef")
	assert.NoError(t, doc.AddMark(1, 3, NewReferenceMark("s-1")))

	assert.Equal(t, "abcdef", doc.PlainText())
	assert.Equal(t, 6, doc.Len())
}
