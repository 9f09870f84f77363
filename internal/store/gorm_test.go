package store

import (
	"context"
	"testing"
	"time"

	"github.com/Tiag8/bible-study-sub001/internal/model"
	"github.com/Tiag8/bible-study-sub001/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func seedStudy(t *testing.T, s Store, userID string) *model.Study {
	t.Helper()

	study := &model.Study{
		ID:      uuid.New().String(),
		UserID:  userID,
		Title:   "Estudo",
		Content: "conteúdo",
	}
	assert.NoError(t, s.CreateStudy(context.TODO(), study))
	return study
}

func TestGormStore_DisplayOrder(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())
	ctx := context.TODO()
	userID := uuid.New().String()

	study := seedStudy(t, s, userID)

	// first reference of a study starts at zero
	order, err := s.NextDisplayOrder(ctx, study.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, order)

	url := "https://example.com"
	refs := make([]*model.Reference, 0, 3)
	for i := 0; i < 3; i++ {
		ref := &model.Reference{
			ID:            uuid.New().String(),
			SourceStudyID: study.ID,
			LinkType:      model.LinkTypeExternal,
			ExternalURL:   &url,
			DisplayOrder:  i,
		}
		assert.NoError(t, s.CreateReferences(ctx, []*model.Reference{ref}))
		refs = append(refs, ref)
	}

	order, err = s.NextDisplayOrder(ctx, study.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, order)

	// deleting the middle row leaves a gap
	assert.NoError(t, s.DeleteReference(ctx, refs[1].ID))

	// renormalize closes it, preserving relative order
	assert.NoError(t, s.RenormalizeDisplayOrder(ctx, study.ID))

	list, err := s.ListReferences(ctx, study.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, refs[0].ID, list[0].ID)
	assert.Equal(t, 0, list[0].DisplayOrder)
	assert.Equal(t, refs[2].ID, list[1].ID)
	assert.Equal(t, 1, list[1].DisplayOrder)
}

func TestGormStore_ReverseOrphans(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())
	ctx := context.TODO()
	userID := uuid.New().String()

	source := seedStudy(t, s, userID)
	target := seedStudy(t, s, userID)

	forward := &model.Reference{
		ID:              uuid.New().String(),
		SourceStudyID:   source.ID,
		TargetStudyID:   &target.ID,
		LinkType:        model.LinkTypeInternal,
		IsBidirectional: true,
	}
	reverse := &model.Reference{
		ID:              uuid.New().String(),
		SourceStudyID:   target.ID,
		TargetStudyID:   &source.ID,
		LinkType:        model.LinkTypeInternal,
		IsBidirectional: false,
	}
	assert.NoError(t, s.CreateReferences(ctx, []*model.Reference{forward, reverse}))

	// while the forward row lives, the reverse row is not an orphan
	orphans, err := s.ListReverseOrphans(ctx)
	assert.NoError(t, err)
	assert.Len(t, orphans, 0)

	assert.NoError(t, s.DeleteReference(ctx, forward.ID))

	orphans, err = s.ListReverseOrphans(ctx)
	assert.NoError(t, err)
	assert.Len(t, orphans, 1)
	assert.Equal(t, reverse.ID, orphans[0].ID)
}

func TestGormStore_EraseStudy(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())
	ctx := context.TODO()
	userID := uuid.New().String()

	study := seedStudy(t, s, userID)
	other := seedStudy(t, s, userID)

	url := "https://example.com"
	assert.NoError(t, s.CreateReferences(ctx, []*model.Reference{
		{
			ID:            uuid.New().String(),
			SourceStudyID: study.ID,
			LinkType:      model.LinkTypeExternal,
			ExternalURL:   &url,
		},
		{
			ID:            uuid.New().String(),
			SourceStudyID: other.ID,
			TargetStudyID: &study.ID,
			LinkType:      model.LinkTypeInternal,
		},
	}))

	deleted, err := s.DeleteStudy(ctx, userID, study.ID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	expired, err := s.ListStudiesDeletedBefore(ctx, time.Now().Add(time.Second))
	assert.NoError(t, err)
	assert.Len(t, expired, 1)

	assert.NoError(t, s.DeleteReferencesOfStudy(ctx, study.ID))
	assert.NoError(t, s.EraseStudy(ctx, study.ID))

	// gone for good, even from the trash
	trash, err := s.ListDeletedStudies(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, trash, 0)

	// rows pointing at the erased study are gone too
	list, err := s.ListReferences(ctx, other.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 0)
}

func TestGormStore_UpsertStudyIndex(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())
	ctx := context.TODO()
	userID := uuid.New().String()

	study := seedStudy(t, s, userID)

	assert.NoError(t, s.UpsertStudyIndex(ctx, &model.StudyIndex{
		StudyID: study.ID,
		UserID:  userID,
		Version: 0,
		Content: "primeiro",
	}))
	assert.NoError(t, s.UpsertStudyIndex(ctx, &model.StudyIndex{
		StudyID: study.ID,
		UserID:  userID,
		Version: 1,
		Content: "segundo",
	}))

	rows, err := s.ListStudyIndexes(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "segundo", rows[0].Content)
	assert.Equal(t, int64(1), rows[0].Version)
}

// the reverse-row flag must survive the round trip as false, or reverse
// rows classify as forward ones and the sweep never finds orphans
func TestGormStore_PersistsReverseFlag(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := NewGormStore(tester.TestDB())
	ctx := context.TODO()
	userID := uuid.New().String()

	study := seedStudy(t, s, userID)
	other := seedStudy(t, s, userID)

	reverse := &model.Reference{
		ID:              uuid.New().String(),
		SourceStudyID:   study.ID,
		TargetStudyID:   &other.ID,
		LinkType:        model.LinkTypeInternal,
		IsBidirectional: false,
	}
	assert.NoError(t, s.CreateReferences(ctx, []*model.Reference{reverse}))

	got, err := s.GetReference(ctx, reverse.ID)
	assert.NoError(t, err)
	assert.False(t, got.IsBidirectional)
}
