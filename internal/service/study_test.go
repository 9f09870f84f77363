package service

import (
	"context"
	"testing"

	v1 "github.com/Tiag8/bible-study-sub001/apis/v1"
	"github.com/Tiag8/bible-study-sub001/internal/cache"
	"github.com/Tiag8/bible-study-sub001/internal/compress"
	"github.com/Tiag8/bible-study-sub001/internal/queue"
	"github.com/Tiag8/bible-study-sub001/internal/search"
	"github.com/Tiag8/bible-study-sub001/internal/store"
	"github.com/Tiag8/bible-study-sub001/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestStudyService(t *testing.T) (*StudyService, *queue.MemoryStudyQueue, *search.Index) {
	t.Helper()

	index, err := search.NewMemIndex()
	assert.NoError(t, err)

	q := queue.NewMemoryStudyQueue()
	svc := NewStudyService(compress.NewNop(), store.NewGormStore(tester.TestDB()), cache.NewNullStudyCache(), index, q)

	return svc, q, index
}

func userContext() (context.Context, string) {
	userID := uuid.New().String()
	return WithUserID(context.TODO(), userID), userID
}

func TestStudyService_CreateStudy(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	client, _, _ := newTestStudyService(t)

	studyID := uuid.New().String()

	tests := []struct {
		name    string
		studyID *string
		title   string
		book    string
		chapter int
		tags    []string
		content string
	}{
		{
			name:    "with client chosen id",
			studyID: &studyID,
			title:   "Estudo sobre Gênesis 1",
			book:    "Gênesis",
			chapter: 1,
			tags:    []string{"criação"},
			content: "No princípio",
		},
		{
			name:  "with generated id",
			title: "Estudo sem livro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := userContext()

			res, err := client.CreateStudy(ctx, &v1.CreateStudyRequest{
				StudyID:       tt.studyID,
				Title:         tt.title,
				BookName:      tt.book,
				ChapterNumber: tt.chapter,
				Tags:          tt.tags,
				Content:       tt.content,
			})
			assert.NoError(t, err)
			assert.NotNil(t, res.Study)

			if tt.studyID != nil {
				assert.Equal(t, *tt.studyID, res.Study.ID)
			} else {
				assert.NotEmpty(t, res.Study.ID)
			}

			got, err := client.GetStudy(ctx, res.Study.ID)
			assert.NoError(t, err)
			assert.Equal(t, tt.title, got.Study.Title)
			assert.Equal(t, tt.book, got.Study.BookName)
			assert.Equal(t, tt.chapter, got.Study.ChapterNumber)
			assert.Equal(t, tt.content, got.Study.Content)
			assert.Equal(t, int64(0), got.Study.Version)
		})
	}
}

func TestStudyService_CreateStudy_MissingTitle(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	client, _, _ := newTestStudyService(t)
	ctx, _ := userContext()

	_, err := client.CreateStudy(ctx, &v1.CreateStudyRequest{Content: "sem título"})
	assert.ErrorIs(t, err, ErrMissingTitle)
}

func TestStudyService_GetStudy_OtherUser(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	client, _, _ := newTestStudyService(t)
	ctx, _ := userContext()

	res, err := client.CreateStudy(ctx, &v1.CreateStudyRequest{Title: "Particular"})
	assert.NoError(t, err)

	otherCtx, _ := userContext()
	_, err = client.GetStudy(otherCtx, res.Study.ID)
	assert.ErrorIs(t, err, ErrStudyNotFound)
}

func TestStudyService_UpdateStudy_VersionClock(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	client, _, _ := newTestStudyService(t)
	ctx, _ := userContext()

	res, err := client.CreateStudy(ctx, &v1.CreateStudyRequest{
		Title:   "Estudo",
		Content: "v0",
	})
	assert.NoError(t, err)
	studyID := res.Study.ID

	title := "Estudo atualizado"
	content := "v1"

	// stale version is rejected
	_, err = client.UpdateStudy(ctx, studyID, &v1.UpdateStudyRequest{
		Title:   &title,
		Version: 5,
	})
	assert.ErrorIs(t, err, ErrVersionMismatch)

	// current version plus one is accepted
	updated, err := client.UpdateStudy(ctx, studyID, &v1.UpdateStudyRequest{
		Title:   &title,
		Content: &content,
		Version: 1,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), updated.Version)

	// -1 overwrites regardless of the clock
	force := "v2"
	updated, err = client.UpdateStudy(ctx, studyID, &v1.UpdateStudyRequest{
		Content: &force,
		Version: -1,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	got, err := client.GetStudy(ctx, studyID)
	assert.NoError(t, err)
	assert.Equal(t, title, got.Study.Title)
	assert.Equal(t, force, got.Study.Content)

	// every update snapshotted the previous state
	revs, err := client.ListStudyRevisions(ctx, studyID)
	assert.NoError(t, err)
	assert.Len(t, revs.Revisions, 2)
	assert.Equal(t, int64(2), revs.LatestVersion)
	assert.Equal(t, int64(1), revs.Revisions[0].Version)
	assert.Equal(t, int64(0), revs.Revisions[1].Version)
}

func TestStudyService_TrashFlow(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	client, _, _ := newTestStudyService(t)
	ctx, _ := userContext()

	res, err := client.CreateStudy(ctx, &v1.CreateStudyRequest{Title: "Descartável"})
	assert.NoError(t, err)
	studyID := res.Study.ID

	deleted, err := client.SoftDeleteStudy(ctx, studyID)
	assert.NoError(t, err)
	assert.True(t, deleted.Deleted)

	// gone from normal reads
	_, err = client.GetStudy(ctx, studyID)
	assert.ErrorIs(t, err, ErrStudyNotFound)

	// but visible in the trash
	trash, err := client.ListDeletedStudies(ctx)
	assert.NoError(t, err)
	assert.Len(t, trash.Studies, 1)
	assert.Equal(t, studyID, trash.Studies[0].ID)
	assert.NotNil(t, trash.Studies[0].DeletedAt)

	// deleting again reports false
	deleted, err = client.SoftDeleteStudy(ctx, studyID)
	assert.NoError(t, err)
	assert.False(t, deleted.Deleted)

	restored, err := client.RestoreStudy(ctx, studyID)
	assert.NoError(t, err)
	assert.True(t, restored.Restored)

	got, err := client.GetStudy(ctx, studyID)
	assert.NoError(t, err)
	assert.Equal(t, "Descartável", got.Study.Title)

	trash, err = client.ListDeletedStudies(ctx)
	assert.NoError(t, err)
	assert.Len(t, trash.Studies, 0)
}

func TestStudyService_ListStudies_Filters(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	client, _, _ := newTestStudyService(t)
	ctx, _ := userContext()

	seeds := []struct {
		title   string
		book    string
		chapter int
	}{
		{"Gênesis 1", "Gênesis", 1},
		{"Gênesis 2", "Gênesis", 2},
		{"João 3", "João", 3},
	}
	for _, s := range seeds {
		_, err := client.CreateStudy(ctx, &v1.CreateStudyRequest{
			Title:         s.title,
			BookName:      s.book,
			ChapterNumber: s.chapter,
		})
		assert.NoError(t, err)
	}

	all, err := client.ListStudies(ctx, "", 0)
	assert.NoError(t, err)
	assert.Len(t, all.Studies, 3)
	assert.Equal(t, int64(3), all.Total)

	book, err := client.ListStudies(ctx, "Gênesis", 0)
	assert.NoError(t, err)
	assert.Len(t, book.Studies, 2)

	chapter, err := client.ListStudies(ctx, "Gênesis", 2)
	assert.NoError(t, err)
	assert.Len(t, chapter.Studies, 1)
	assert.Equal(t, "Gênesis 2", chapter.Studies[0].Title)

	// listings never carry content
	assert.Empty(t, all.Studies[0].Content)
}

func TestStudyService_Search(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	client, q, index := newTestStudyService(t)
	ctx, _ := userContext()

	_, err := client.CreateStudy(ctx, &v1.CreateStudyRequest{
		Title:   "A criação do mundo",
		Content: "No princípio criou Deus os céus e a terra",
	})
	assert.NoError(t, err)

	_, err = client.CreateStudy(ctx, &v1.CreateStudyRequest{
		Title:   "Parábolas",
		Content: "O semeador saiu a semear",
	})
	assert.NoError(t, err)

	// apply the queued changes to the index, as the sync job would
	events, err := q.Drain(context.TODO(), 10)
	assert.NoError(t, err)
	assert.Len(t, events, 2)
	for _, ev := range events {
		assert.Equal(t, queue.EventUpsert, ev.Kind)
		err = index.IndexStudy(ev.StudyID, ev.UserID, ev.Title, ev.Content, nil)
		assert.NoError(t, err)
	}

	res, err := client.Search(ctx, "criação")
	assert.NoError(t, err)
	assert.Len(t, res.Hits, 1)
	assert.Equal(t, "A criação do mundo", res.Hits[0].Title)
	assert.Greater(t, res.Hits[0].Score, 0.0)

	// empty query returns no hits
	res, err = client.Search(ctx, "")
	assert.NoError(t, err)
	assert.Len(t, res.Hits, 0)

	// other users never see the hits
	otherCtx := WithUserID(context.TODO(), uuid.New().String())
	res, err = client.Search(otherCtx, "criação")
	assert.NoError(t, err)
	assert.Len(t, res.Hits, 0)
}

func TestStudyService_Unauthenticated(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	client, _, _ := newTestStudyService(t)
	ctx := context.TODO()

	list, err := client.ListStudies(ctx, "", 0)
	assert.NoError(t, err)
	assert.Len(t, list.Studies, 0)

	res, err := client.Search(ctx, "criação")
	assert.NoError(t, err)
	assert.Len(t, res.Hits, 0)

	trash, err := client.ListDeletedStudies(ctx)
	assert.NoError(t, err)
	assert.Len(t, trash.Studies, 0)
}

func TestStudyService_ListBooks(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	client, _, _ := newTestStudyService(t)

	res, err := client.ListBooks(context.TODO())
	assert.NoError(t, err)
	assert.Len(t, res.Books, 66)

	assert.Equal(t, "Gênesis", res.Books[0].Name)
	assert.Equal(t, 1, res.Books[0].Position)
	assert.Equal(t, "Apocalipse", res.Books[65].Name)
	assert.Equal(t, "new", res.Books[65].Testament)
}
