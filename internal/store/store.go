package store

import (
	"context"
	"time"

	"github.com/Tiag8/bible-study-sub001/internal/model"
)

type Store interface {
	StudyStore
	ReferenceStore
	StudyRevisionStore
	BookStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type StudyStore interface {
	// CreateStudy creates a new study.
	CreateStudy(ctx context.Context, study *model.Study) error
	// GetStudy retrieves a study by id, scoped to the owning user.
	// Soft-deleted studies are not returned.
	GetStudy(ctx context.Context, userID, id string) (*model.Study, error)
	// ListStudies retrieves the user's studies, optionally filtered by
	// book name and chapter number (zero values mean no filter).
	ListStudies(ctx context.Context, userID, bookName string, chapter int) ([]*model.Study, int64, error)
	// UpdateStudy updates a study.
	UpdateStudy(ctx context.Context, study *model.Study) error
	// DeleteStudy soft deletes a study.
	DeleteStudy(ctx context.Context, userID, id string) (bool, error)
	// RestoreStudy reverses a soft delete.
	RestoreStudy(ctx context.Context, userID, id string) (bool, error)
	// ListDeletedStudies retrieves the user's soft-deleted studies.
	ListDeletedStudies(ctx context.Context, userID string) ([]*model.Study, error)
	// ListStudiesDeletedBefore retrieves soft-deleted studies across all
	// users whose deletion is older than the cutoff.
	ListStudiesDeletedBefore(ctx context.Context, cutoff time.Time) ([]*model.Study, error)
	// EraseStudy hard deletes a study.
	EraseStudy(ctx context.Context, id string) error
	// ExistsStudy reports whether a live study with the id exists for the
	// user.
	ExistsStudy(ctx context.Context, userID, id string) (bool, error)
	// UpsertStudyIndex writes the indexable text row for a study.
	UpsertStudyIndex(ctx context.Context, idx *model.StudyIndex) error
	// ListStudyIndexes retrieves all index rows for a user, used to
	// rebuild the search index.
	ListStudyIndexes(ctx context.Context, userID string) ([]*model.StudyIndex, error)
	// DeleteStudyIndex removes the index row of a study.
	DeleteStudyIndex(ctx context.Context, studyID string) error
}

type ReferenceStore interface {
	// ListReferences retrieves the references owned by a study, ordered by
	// display order.
	ListReferences(ctx context.Context, sourceStudyID string) ([]*model.Reference, error)
	// GetReference retrieves a reference by id.
	GetReference(ctx context.Context, id string) (*model.Reference, error)
	// CreateReferences creates reference rows in one call.
	CreateReferences(ctx context.Context, refs []*model.Reference) error
	// DeleteReference removes exactly the given row.
	DeleteReference(ctx context.Context, id string) error
	// NextDisplayOrder returns the display order for a reference appended
	// after the study's existing siblings.
	NextDisplayOrder(ctx context.Context, sourceStudyID string) (int, error)
	// UpdateDisplayOrder sets the display order of a single reference.
	UpdateDisplayOrder(ctx context.Context, id string, order int) error
	// ListReverseOrphans retrieves materialized reverse rows whose forward
	// partner no longer exists.
	ListReverseOrphans(ctx context.Context) ([]*model.Reference, error)
	// ListReferenceSourceIDs lists the distinct studies that own at least
	// one reference.
	ListReferenceSourceIDs(ctx context.Context) ([]string, error)
	// RenormalizeDisplayOrder rewrites a study's display orders to a dense
	// 0..n-1 sequence preserving relative order.
	RenormalizeDisplayOrder(ctx context.Context, sourceStudyID string) error
	// DeleteReferencesOfStudy removes every reference owned by or pointing
	// at the study. Used when a study is erased.
	DeleteReferencesOfStudy(ctx context.Context, studyID string) error
}

type StudyRevisionStore interface {
	// CreateStudyRevision snapshots a study before an update.
	CreateStudyRevision(ctx context.Context, rev *model.StudyRevision) error
	// ListStudyRevisions retrieves the revisions of a study, newest first.
	ListStudyRevisions(ctx context.Context, studyID string) ([]*model.StudyRevision, error)
	// DeleteStudyRevisions removes selected versions of a study.
	DeleteStudyRevisions(ctx context.Context, studyID string, versions []int64) error
	// ListStudyRevisionsCreatedBetween retrieves revisions created inside
	// the window, oldest first. Used by the revision cleaner.
	ListStudyRevisionsCreatedBetween(ctx context.Context, from, to time.Time) ([]*model.StudyRevision, error)
}

type BookStore interface {
	// ListBooks retrieves the book catalogue in canonical order.
	ListBooks(ctx context.Context) ([]*model.Book, error)
}
