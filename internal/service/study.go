package service

import (
	"context"
	"encoding/json"

	v1 "github.com/Tiag8/bible-study-sub001/apis/v1"
	"github.com/Tiag8/bible-study-sub001/internal/cache"
	"github.com/Tiag8/bible-study-sub001/internal/compress"
	"github.com/Tiag8/bible-study-sub001/internal/model"
	"github.com/Tiag8/bible-study-sub001/internal/queue"
	"github.com/Tiag8/bible-study-sub001/internal/search"
	"github.com/Tiag8/bible-study-sub001/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewStudyService creates a new StudyService.
func NewStudyService(compress compress.Compress, store store.Store, cache cache.StudyCache, index *search.Index, queue queue.StudyQueue) *StudyService {
	return &StudyService{
		compress: compress,
		store:    store,
		cache:    cache,
		index:    index,
		queue:    queue,
	}
}

// StudyService manages study notes: CRUD with optimistic versioning,
// trash (soft delete/restore), revisions and ranked search.
type StudyService struct {
	compress compress.Compress
	store    store.Store
	cache    cache.StudyCache
	index    *search.Index
	queue    queue.StudyQueue
}

// CreateStudy creates a new study note.
func (s *StudyService) CreateStudy(ctx context.Context, request *v1.CreateStudyRequest) (*v1.CreateStudyResponse, error) {
	userID, ok := UserIDFrom(ctx)
	if !ok {
		return &v1.CreateStudyResponse{}, nil
	}

	if request.Title == "" {
		return nil, ErrMissingTitle
	}

	contentData, err := s.compress.Encode([]byte(request.Content))
	if err != nil {
		return nil, err
	}

	study := &model.Study{
		UserID:        userID,
		Version:       0,
		Title:         request.Title,
		BookName:      request.BookName,
		ChapterNumber: request.ChapterNumber,
		Content:       string(contentData),
		Compression:   s.compress.Name(),
	}
	if err := study.SetTagList(request.Tags); err != nil {
		return nil, err
	}

	if request.StudyID != nil {
		study.ID = *request.StudyID
	} else {
		study.ID = uuid.New().String()
	}

	if err := s.store.CreateStudy(ctx, study); err != nil {
		return nil, err
	}

	s.publishIndexEvent(ctx, queue.EventUpsert, study, request.Content)

	return &v1.CreateStudyResponse{
		Study: s.toAPIStudy(study, request.Content),
	}, nil
}

// GetStudy retrieves a study with its decoded content.
func (s *StudyService) GetStudy(ctx context.Context, studyID string) (*v1.GetStudyResponse, error) {
	userID, ok := UserIDFrom(ctx)
	if !ok {
		return &v1.GetStudyResponse{}, nil
	}

	study, err := s.cache.GetStudy(ctx, studyID)
	if err != nil {
		logrus.Errorf("error reading study cache for %s: %v", studyID, err)
	}

	// cached studies still belong to their owner
	if study != nil && study.UserID != userID {
		study = nil
	}

	if study == nil {
		study, err = s.store.GetStudy(ctx, userID, studyID)
		if err != nil {
			if store.IsNotFound(err) {
				return nil, ErrStudyNotFound
			}
			return nil, err
		}

		if err := s.cache.SetStudy(ctx, study); err != nil {
			logrus.Errorf("error caching study %s: %v", studyID, err)
		}
	}

	content, err := s.decodeContent(study)
	if err != nil {
		return nil, err
	}

	return &v1.GetStudyResponse{Study: s.toAPIStudy(study, content)}, nil
}

// ListStudies lists the user's studies, optionally scoped to a book and
// chapter. Content is omitted from listings.
func (s *StudyService) ListStudies(ctx context.Context, bookName string, chapter int) (*v1.ListStudiesResponse, error) {
	userID, ok := UserIDFrom(ctx)
	if !ok {
		return &v1.ListStudiesResponse{Studies: []*v1.Study{}}, nil
	}

	studies, total, err := s.store.ListStudies(ctx, userID, bookName, chapter)
	if err != nil {
		return nil, err
	}

	out := make([]*v1.Study, 0, len(studies))
	for _, study := range studies {
		api := s.toAPIStudy(study, "")
		api.Content = ""
		out = append(out, api)
	}

	return &v1.ListStudiesResponse{Studies: out, Total: total}, nil
}

// UpdateStudy updates a study under the optimistic version check: the
// request version must be the stored version plus one, or -1 to overwrite.
// A revision snapshot is taken before the update is applied.
func (s *StudyService) UpdateStudy(ctx context.Context, studyID string, request *v1.UpdateStudyRequest) (*v1.UpdateStudyResponse, error) {
	userID, ok := UserIDFrom(ctx)
	if !ok {
		return &v1.UpdateStudyResponse{}, nil
	}

	var study *model.Study

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		study, err = tx.GetStudy(ctx, userID, studyID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrStudyNotFound
			}
			return err
		}

		overwrite := request.Version == -1
		versionMatch := request.Version == study.Version+1

		if !overwrite && !versionMatch {
			logrus.Infof("version mismatch for study %s: current %d, provided %d", study.ID, study.Version, request.Version)
			return ErrVersionMismatch
		}

		err = tx.CreateStudyRevision(ctx, &model.StudyRevision{
			ID:          study.ID,
			Version:     study.Version,
			Title:       study.Title,
			Content:     study.Content,
			Tags:        study.Tags,
			Compression: study.Compression,
		})
		if err != nil {
			return err
		}

		if request.Title != nil {
			study.Title = *request.Title
		}
		if request.Content != nil {
			contentData, err := s.compress.Encode([]byte(*request.Content))
			if err != nil {
				return err
			}
			study.Content = string(contentData)
			study.Compression = s.compress.Name()
		}
		if request.Tags != nil {
			if err := study.SetTagList(request.Tags); err != nil {
				return err
			}
		}

		study.Version = study.Version + 1

		return tx.UpdateStudy(ctx, study)
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.DeleteStudy(ctx, studyID); err != nil {
		logrus.Errorf("error evicting study %s: %v", studyID, err)
	}

	content, err := s.decodeContent(study)
	if err != nil {
		return nil, err
	}
	s.publishIndexEvent(ctx, queue.EventUpsert, study, content)

	return &v1.UpdateStudyResponse{
		ID:      study.ID,
		Version: study.Version,
	}, nil
}

// SoftDeleteStudy moves a study to the trash. The study stays restorable
// until the purge job erases it.
func (s *StudyService) SoftDeleteStudy(ctx context.Context, studyID string) (*v1.DeleteStudyResponse, error) {
	userID, ok := UserIDFrom(ctx)
	if !ok {
		return &v1.DeleteStudyResponse{ID: studyID}, nil
	}

	deleted, err := s.store.DeleteStudy(ctx, userID, studyID)
	if err != nil {
		return nil, err
	}

	if deleted {
		if err := s.cache.DeleteStudy(ctx, studyID); err != nil {
			logrus.Errorf("error evicting study %s: %v", studyID, err)
		}
		s.publishIndexEvent(ctx, queue.EventDelete, &model.Study{ID: studyID, UserID: userID}, "")
	}

	return &v1.DeleteStudyResponse{ID: studyID, Deleted: deleted}, nil
}

// RestoreStudy reverses a soft delete.
func (s *StudyService) RestoreStudy(ctx context.Context, studyID string) (*v1.RestoreStudyResponse, error) {
	userID, ok := UserIDFrom(ctx)
	if !ok {
		return &v1.RestoreStudyResponse{ID: studyID}, nil
	}

	restored, err := s.store.RestoreStudy(ctx, userID, studyID)
	if err != nil {
		return nil, err
	}

	if restored {
		study, err := s.store.GetStudy(ctx, userID, studyID)
		if err == nil {
			content, derr := s.decodeContent(study)
			if derr == nil {
				s.publishIndexEvent(ctx, queue.EventUpsert, study, content)
			}
		}
	}

	return &v1.RestoreStudyResponse{ID: studyID, Restored: restored}, nil
}

// ListDeletedStudies lists the studies currently in the user's trash.
func (s *StudyService) ListDeletedStudies(ctx context.Context) (*v1.ListDeletedStudiesResponse, error) {
	userID, ok := UserIDFrom(ctx)
	if !ok {
		return &v1.ListDeletedStudiesResponse{Studies: []*v1.Study{}}, nil
	}

	studies, err := s.store.ListDeletedStudies(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*v1.Study, 0, len(studies))
	for _, study := range studies {
		api := s.toAPIStudy(study, "")
		if study.DeletedAt.Valid {
			t := study.DeletedAt.Time
			api.DeletedAt = &t
		}
		out = append(out, api)
	}

	return &v1.ListDeletedStudiesResponse{Studies: out}, nil
}

// Search runs a ranked full-text search over the user's studies. An empty
// query returns no hits without touching the index.
func (s *StudyService) Search(ctx context.Context, query string) (*v1.SearchResponse, error) {
	userID, ok := UserIDFrom(ctx)
	if !ok || query == "" {
		return &v1.SearchResponse{Hits: []*v1.SearchHit{}}, nil
	}

	hits, err := s.index.Search(userID, query, 50)
	if err != nil {
		return nil, err
	}

	out := make([]*v1.SearchHit, 0, len(hits))
	for _, hit := range hits {
		out = append(out, &v1.SearchHit{
			StudyID: hit.StudyID,
			Title:   hit.Title,
			Score:   hit.Score,
		})
	}

	return &v1.SearchResponse{Hits: out}, nil
}

// ListBooks returns the book catalogue in canonical order. The catalogue
// is public data, no auth guard applies.
func (s *StudyService) ListBooks(ctx context.Context) (*v1.ListBooksResponse, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*v1.Book, 0, len(books))
	for _, book := range books {
		out = append(out, &v1.Book{
			Name:         book.Name,
			Abbreviation: book.Abbreviation,
			Testament:    book.Testament,
			ChapterCount: book.ChapterCount,
			Position:     book.Position,
		})
	}

	return &v1.ListBooksResponse{Books: out}, nil
}

// ListStudyRevisions lists the revisions of a study, newest first.
func (s *StudyService) ListStudyRevisions(ctx context.Context, studyID string) (*v1.ListStudyRevisionsResponse, error) {
	userID, ok := UserIDFrom(ctx)
	if !ok {
		return &v1.ListStudyRevisionsResponse{Revisions: []*v1.StudyRevision{}}, nil
	}

	study, err := s.store.GetStudy(ctx, userID, studyID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}

	revs, err := s.store.ListStudyRevisions(ctx, studyID)
	if err != nil {
		return nil, err
	}

	out := make([]*v1.StudyRevision, 0, len(revs))
	for _, rev := range revs {
		out = append(out, &v1.StudyRevision{
			Version:   rev.Version,
			Title:     rev.Title,
			CreatedAt: rev.CreatedAt,
		})
	}

	return &v1.ListStudyRevisionsResponse{
		Revisions:     out,
		LatestVersion: study.Version,
	}, nil
}

func (s *StudyService) decodeContent(study *model.Study) (string, error) {
	codec := s.compress
	if study.Compression != "" {
		codec = compress.ByName(study.Compression)
	}

	data, err := codec.Decode([]byte(study.Content))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *StudyService) toAPIStudy(study *model.Study, content string) *v1.Study {
	return &v1.Study{
		ID:            study.ID,
		Title:         study.Title,
		BookName:      study.BookName,
		ChapterNumber: study.ChapterNumber,
		Tags:          study.TagList(),
		Content:       content,
		Version:       study.Version,
		CreatedAt:     study.CreatedAt,
		UpdatedAt:     study.UpdatedAt,
	}
}

// publishIndexEvent enqueues a search index update. Queue failures are
// logged, never surfaced: the index is rebuildable from the study_index
// table.
func (s *StudyService) publishIndexEvent(ctx context.Context, kind string, study *model.Study, content string) {
	if kind == queue.EventUpsert {
		err := s.store.UpsertStudyIndex(ctx, &model.StudyIndex{
			StudyID: study.ID,
			UserID:  study.UserID,
			Version: study.Version,
			Content: study.Title + "\n" + content,
		})
		if err != nil {
			logrus.Errorf("error writing index row for study %s: %v", study.ID, err)
		}
	} else {
		if err := s.store.DeleteStudyIndex(ctx, study.ID); err != nil {
			logrus.Errorf("error deleting index row for study %s: %v", study.ID, err)
		}
	}

	err := s.queue.PublishChange(ctx, &queue.StudyEvent{
		Kind:    kind,
		StudyID: study.ID,
		UserID:  study.UserID,
		Version: study.Version,
		Title:   study.Title,
		Content: content,
	})
	if err != nil {
		logrus.Errorf("error publishing index event for study %s: %v", study.ID, err)
	}
}

func decodeTags(encoded string) []string {
	if encoded == "" {
		return nil
	}

	var tags []string
	if err := json.Unmarshal([]byte(encoded), &tags); err != nil {
		return nil
	}
	return tags
}
