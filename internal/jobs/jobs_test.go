package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/Tiag8/bible-study-sub001/internal/cache"
	"github.com/Tiag8/bible-study-sub001/internal/model"
	"github.com/Tiag8/bible-study-sub001/internal/queue"
	"github.com/Tiag8/bible-study-sub001/internal/search"
	"github.com/Tiag8/bible-study-sub001/internal/store"
	"github.com/Tiag8/bible-study-sub001/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func seedStudy(t *testing.T, s store.Store, userID string) *model.Study {
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

// evictionRecorder captures which studies had their reference cache
// evicted.
type evictionRecorder struct {
	cache.NullStudyCache
	evicted []string
}

func (r *evictionRecorder) DeleteReferences(ctx context.Context, sourceStudyID string) error {
	r.evicted = append(r.evicted, sourceStudyID)
	return nil
}

func TestReferenceSweep(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := store.NewGormStore(tester.TestDB())
	ctx := context.TODO()
	userID := uuid.New().String()

	source := seedStudy(t, s, userID)
	target := seedStudy(t, s, userID)

	url := "https://example.com"
	forward := &model.Reference{
		ID:              uuid.New().String(),
		SourceStudyID:   source.ID,
		TargetStudyID:   &target.ID,
		LinkType:        model.LinkTypeInternal,
		IsBidirectional: true,
		DisplayOrder:    0,
	}
	reverse := &model.Reference{
		ID:              uuid.New().String(),
		SourceStudyID:   target.ID,
		TargetStudyID:   &source.ID,
		LinkType:        model.LinkTypeInternal,
		IsBidirectional: false,
		DisplayOrder:    0,
	}
	external := &model.Reference{
		ID:            uuid.New().String(),
		SourceStudyID: target.ID,
		LinkType:      model.LinkTypeExternal,
		ExternalURL:   &url,
		DisplayOrder:  1,
	}
	assert.NoError(t, s.CreateReferences(ctx, []*model.Reference{forward, reverse, external}))

	// the user deleted the forward row, leaving the reverse row orphaned
	assert.NoError(t, s.DeleteReference(ctx, forward.ID))

	evictions := &evictionRecorder{}
	NewReferenceSweep("@every 10m", s, evictions).Run()

	list, err := s.ListReferences(ctx, target.ID)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, external.ID, list[0].ID)
	// display order closed the gap left by the swept row
	assert.Equal(t, 0, list[0].DisplayOrder)

	// a stale cached list must not outlive the sweep
	assert.Equal(t, []string{target.ID}, evictions.evicted)
}

func TestTrashPurge(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := store.NewGormStore(tester.TestDB())
	ctx := context.TODO()
	userID := uuid.New().String()

	index, err := search.NewMemIndex()
	assert.NoError(t, err)

	expired := seedStudy(t, s, userID)
	fresh := seedStudy(t, s, userID)

	deleted, err := s.DeleteStudy(ctx, userID, expired.ID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteStudy(ctx, userID, fresh.ID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	// zero retention erases everything already in the trash
	NewTrashPurge("@every 1h", s, index, 0).Run()

	trash, err := s.ListDeletedStudies(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, trash, 0)
}

func TestIndexSync(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	index, err := search.NewMemIndex()
	assert.NoError(t, err)

	q := queue.NewMemoryStudyQueue()
	userID := uuid.New().String()
	studyID := uuid.New().String()

	assert.NoError(t, q.PublishChange(context.TODO(), &queue.StudyEvent{
		Kind:    queue.EventUpsert,
		StudyID: studyID,
		UserID:  userID,
		Title:   "A criação",
		Content: "No princípio",
	}))

	sync := NewIndexSync(q, index)
	sync.Run()

	hits, err := index.Search(userID, "criação", 10)
	assert.NoError(t, err)
	assert.Len(t, hits, 1)
	assert.Equal(t, studyID, hits[0].StudyID)

	// a delete event removes the study from the index
	assert.NoError(t, q.PublishChange(context.TODO(), &queue.StudyEvent{
		Kind:    queue.EventDelete,
		StudyID: studyID,
		UserID:  userID,
	}))
	sync.Run()

	hits, err = index.Search(userID, "criação", 10)
	assert.NoError(t, err)
	assert.Len(t, hits, 0)
}

func TestTrashPurge_KeepsFreshStudies(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := store.NewGormStore(tester.TestDB())
	ctx := context.TODO()
	userID := uuid.New().String()

	index, err := search.NewMemIndex()
	assert.NoError(t, err)

	study := seedStudy(t, s, userID)
	deleted, err := s.DeleteStudy(ctx, userID, study.ID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	// a long retention keeps the study restorable
	NewTrashPurge("@every 1h", s, index, 24*time.Hour).Run()

	trash, err := s.ListDeletedStudies(ctx, userID)
	assert.NoError(t, err)
	assert.Len(t, trash, 1)
}
