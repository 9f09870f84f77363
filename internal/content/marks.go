package content

import "errors"

var (
	// ErrMarkOverlap is returned when a mark would overlap a span already
	// carrying a mark of the same type. Same-type annotations cannot nest.
	ErrMarkOverlap = errors.New("mark overlaps an existing mark of the same type")
	// ErrRangeOutOfBounds is returned for a mark range outside the
	// document text.
	ErrRangeOutOfBounds = errors.New("mark range is out of bounds")
)

// AddMark attaches the mark to the byte range [from, to) of the document
// text. Spans are split at the range boundaries so marks never partially
// cover a span. Fails without modifying the document when the range
// overlaps an existing mark of the same type.
func (d *Document) AddMark(from, to int, mark *Mark) error {
	if from < 0 || to > d.Len() || from >= to {
		return ErrRangeOutOfBounds
	}

	// reject against the unsplit spans so a failed add leaves the
	// document untouched, span boundaries included
	pos := 0
	for _, span := range d.Spans {
		end := pos + len(span.Text)
		if pos < to && end > from && span.hasMark(mark.Type) {
			return ErrMarkOverlap
		}
		pos = end
	}

	d.splitAt(from)
	d.splitAt(to)

	pos = 0
	for _, span := range d.Spans {
		end := pos + len(span.Text)
		if pos >= from && end <= to {
			span.Marks = append(span.Marks, cloneMarks([]*Mark{mark})...)
		}
		pos = end
	}

	return nil
}

// RemoveMark strips every mark of the given type from the byte range
// [from, to). Span boundaries are preserved.
func (d *Document) RemoveMark(from, to int, markType string) error {
	if from < 0 || to > d.Len() || from >= to {
		return ErrRangeOutOfBounds
	}

	d.splitAt(from)
	d.splitAt(to)

	pos := 0
	for _, span := range d.Spans {
		end := pos + len(span.Text)
		if pos >= from && end <= to {
			kept := span.Marks[:0]
			for _, m := range span.Marks {
				if m.Type != markType {
					kept = append(kept, m)
				}
			}
			span.Marks = kept
		}
		pos = end
	}

	return nil
}

// splitAt splits the span containing the byte offset so that a span
// boundary exists exactly at the offset.
func (d *Document) splitAt(offset int) {
	pos := 0
	for i, span := range d.Spans {
		end := pos + len(span.Text)
		if offset > pos && offset < end {
			cut := offset - pos
			left := &Span{Text: span.Text[:cut], Marks: cloneMarks(span.Marks)}
			right := &Span{Text: span.Text[cut:], Marks: cloneMarks(span.Marks)}

			spans := make([]*Span, 0, len(d.Spans)+1)
			spans = append(spans, d.Spans[:i]...)
			spans = append(spans, left, right)
			spans = append(spans, d.Spans[i+1:]...)
			d.Spans = spans
			return
		}
		pos = end
	}
}
