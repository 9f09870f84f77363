package cache

import (
	"context"

	"github.com/Tiag8/bible-study-sub001/internal/model"
)

// StudyCache caches hot studies and per-study reference lists. A miss is
// returned as (nil, nil), never an error.
type StudyCache interface {
	// GetStudy gets a study from the cache.
	GetStudy(ctx context.Context, id string) (*model.Study, error)
	// SetStudy sets a study in the cache.
	SetStudy(ctx context.Context, study *model.Study) error
	// DeleteStudy evicts a study.
	DeleteStudy(ctx context.Context, id string) error
	// GetReferences gets a study's reference list from the cache.
	GetReferences(ctx context.Context, sourceStudyID string) ([]*model.Reference, error)
	// SetReferences caches a study's reference list.
	SetReferences(ctx context.Context, sourceStudyID string, refs []*model.Reference) error
	// DeleteReferences evicts a study's reference list.
	DeleteReferences(ctx context.Context, sourceStudyID string) error
}
