// Package v1 holds the JSON types of the REST surface. The same structs
// are used by the server handlers and the Go client.
package v1

import "time"

// Study is the wire form of a study note.
type Study struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	BookName      string     `json:"book_name,omitempty"`
	ChapterNumber int        `json:"chapter_number,omitempty"`
	Tags          []string   `json:"tags"`
	Content       string     `json:"content,omitempty"`
	Version       int64      `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

type CreateStudyRequest struct {
	// StudyID lets the client pick the id, a fresh uuid is generated
	// otherwise.
	StudyID       *string  `json:"study_id,omitempty"`
	Title         string   `json:"title"`
	BookName      string   `json:"book_name,omitempty"`
	ChapterNumber int      `json:"chapter_number,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Content       string   `json:"content,omitempty"`
}

type CreateStudyResponse struct {
	Study *Study `json:"study"`
}

type GetStudyResponse struct {
	Study *Study `json:"study"`
}

type ListStudiesResponse struct {
	Studies []*Study `json:"studies"`
	Total   int64    `json:"total"`
}

type UpdateStudyRequest struct {
	Title   *string  `json:"title,omitempty"`
	Content *string  `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	// Version is the optimistic concurrency clock: it must be the current
	// version plus one, or -1 to overwrite unconditionally.
	Version int64 `json:"version"`
}

type UpdateStudyResponse struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`
}

// DeleteStudyResponse reports a soft delete or restore outcome.
type DeleteStudyResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type RestoreStudyResponse struct {
	ID       string `json:"id"`
	Restored bool   `json:"restored"`
}

type ListDeletedStudiesResponse struct {
	Studies []*Study `json:"studies"`
}

// Reference is the wire form of a reference card: the persisted row plus
// its display classification.
type Reference struct {
	ID              string   `json:"id"`
	SourceStudyID   string   `json:"source_study_id"`
	TargetStudyID   *string  `json:"target_study_id,omitempty"`
	LinkType        string   `json:"link_type"`
	ExternalURL     *string  `json:"external_url,omitempty"`
	IsBidirectional bool     `json:"is_bidirectional"`
	DisplayOrder    int      `json:"display_order"`
	TargetTitle     string   `json:"target_title,omitempty"`
	TargetBookName  string   `json:"target_book_name,omitempty"`
	TargetChapter   int      `json:"target_chapter_number,omitempty"`
	TargetTags      []string `json:"target_tags,omitempty"`

	Kind  string `json:"kind"`
	Color string `json:"color"`
	Label string `json:"label"`

	CreatedAt time.Time `json:"created_at"`
}

type CreateReferenceRequest struct {
	TargetStudyID *string `json:"target_study_id,omitempty"`
	ExternalURL   *string `json:"external_url,omitempty"`
}

type CreateReferenceResponse struct {
	Reference *Reference `json:"reference"`
}

type ListReferencesResponse struct {
	References []*Reference `json:"references"`
}

// Reorder directions.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

type ReorderReferenceRequest struct {
	Direction string `json:"direction"`
}

type ReorderReferenceResponse struct {
	References []*Reference `json:"references"`
}

// SearchHit is one ranked study search result.
type SearchHit struct {
	StudyID string  `json:"study_id"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
}

type SearchResponse struct {
	Hits []*SearchHit `json:"hits"`
}

type Book struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Testament    string `json:"testament"`
	ChapterCount int    `json:"chapter_count"`
	Position     int    `json:"position"`
}

type ListBooksResponse struct {
	Books []*Book `json:"books"`
}

type StudyRevision struct {
	Version   int64     `json:"version"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type ListStudyRevisionsResponse struct {
	Revisions     []*StudyRevision `json:"revisions"`
	LatestVersion int64            `json:"latest_version"`
}

// RewriteContentRequest carries editor HTML whose study links should be
// normalized before rendering.
type RewriteContentRequest struct {
	HTML string `json:"html"`
}

type RewriteContentResponse struct {
	HTML string `json:"html"`
}

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
