package service

import (
	"context"
	"sync"

	v1 "github.com/Tiag8/bible-study-sub001/apis/v1"
	"github.com/Tiag8/bible-study-sub001/internal/cache"
	"github.com/Tiag8/bible-study-sub001/internal/links"
	"github.com/Tiag8/bible-study-sub001/internal/model"
	"github.com/Tiag8/bible-study-sub001/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewReferenceService creates a new ReferenceService.
func NewReferenceService(store store.Store, cache cache.StudyCache) *ReferenceService {
	return &ReferenceService{
		store: store,
		cache: cache,
		locks: make(map[string]*sync.Mutex),
	}
}

// ReferenceService owns the lifecycle of the references of a study:
// listing, creation (with reverse-row materialization), deletion and
// reordering. Reorders are serialized per study so concurrent calls cannot
// lose an update.
type ReferenceService struct {
	store store.Store
	cache cache.StudyCache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// studyLock returns the mutex serializing reorder operations of one study.
func (s *ReferenceService) studyLock(studyID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[studyID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[studyID] = lock
	}
	return lock
}

// ListReferences returns the references owned by a study in display order.
// Unauthenticated callers get an empty list.
func (s *ReferenceService) ListReferences(ctx context.Context, studyID string) (*v1.ListReferencesResponse, error) {
	userID, ok := UserIDFrom(ctx)
	if !ok {
		return &v1.ListReferencesResponse{References: []*v1.Reference{}}, nil
	}

	exists, err := s.store.ExistsStudy(ctx, userID, studyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStudyNotFound
	}

	refs, err := s.cache.GetReferences(ctx, studyID)
	if err != nil {
		logrus.Errorf("error reading reference cache for study %s: %v", studyID, err)
	}

	if refs == nil {
		refs, err = s.store.ListReferences(ctx, studyID)
		if err != nil {
			return nil, err
		}

		if err := s.cache.SetReferences(ctx, studyID, refs); err != nil {
			logrus.Errorf("error caching references for study %s: %v", studyID, err)
		}
	}

	return &v1.ListReferencesResponse{References: toAPIReferences(refs)}, nil
}

// AddReference creates a reference owned by the study. Internal references
// are validated against the target study and get their reverse row
// materialized in the same transaction. External references are validated
// before any database work.
func (s *ReferenceService) AddReference(ctx context.Context, studyID string, request *v1.CreateReferenceRequest) (*v1.CreateReferenceResponse, error) {
	userID, ok := UserIDFrom(ctx)
	if !ok {
		return &v1.CreateReferenceResponse{}, nil
	}

	internal := request.TargetStudyID != nil && *request.TargetStudyID != ""
	external := request.ExternalURL != nil && *request.ExternalURL != ""
	if internal == external {
		return nil, ErrInvalidReference
	}
	// a study cannot reference itself: the reverse row would land on the
	// same study and collide with the forward row's display order
	if internal && *request.TargetStudyID == studyID {
		return nil, ErrInvalidReference
	}

	if external && !links.IsValidURL(*request.ExternalURL) {
		return nil, ErrInvalidExternalURL
	}

	source, err := s.store.GetStudy(ctx, userID, studyID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrStudyNotFound
		}
		return nil, err
	}

	var created *model.Reference

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		order, err := tx.NextDisplayOrder(ctx, studyID)
		if err != nil {
			return err
		}

		if external {
			created = &model.Reference{
				ID:              uuid.New().String(),
				SourceStudyID:   studyID,
				LinkType:        model.LinkTypeExternal,
				ExternalURL:     request.ExternalURL,
				IsBidirectional: true,
				DisplayOrder:    order,
			}
			return tx.CreateReferences(ctx, []*model.Reference{created})
		}

		target, err := tx.GetStudy(ctx, userID, *request.TargetStudyID)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrTargetStudyNotFound
			}
			return err
		}

		created = &model.Reference{
			ID:                  uuid.New().String(),
			SourceStudyID:       studyID,
			TargetStudyID:       &target.ID,
			LinkType:            model.LinkTypeInternal,
			IsBidirectional:     true,
			DisplayOrder:        order,
			TargetTitle:         target.Title,
			TargetBookName:      target.BookName,
			TargetChapterNumber: target.ChapterNumber,
			TargetTags:          target.Tags,
		}

		reverseOrder, err := tx.NextDisplayOrder(ctx, target.ID)
		if err != nil {
			return err
		}

		// the reverse row makes the target study list who points at it
		reverse := &model.Reference{
			ID:                  uuid.New().String(),
			SourceStudyID:       target.ID,
			TargetStudyID:       &source.ID,
			LinkType:            model.LinkTypeInternal,
			IsBidirectional:     false,
			DisplayOrder:        reverseOrder,
			TargetTitle:         source.Title,
			TargetBookName:      source.BookName,
			TargetChapterNumber: source.ChapterNumber,
			TargetTags:          source.Tags,
		}

		return tx.CreateReferences(ctx, []*model.Reference{created, reverse})
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, studyID)
	if id, ok := created.Internal(); ok {
		s.invalidate(ctx, id)
	}

	return &v1.CreateReferenceResponse{Reference: toAPIReference(created)}, nil
}

// DeleteReference removes exactly the given row. A reverse row, if any,
// stays until the sweep job collects it.
func (s *ReferenceService) DeleteReference(ctx context.Context, referenceID string) error {
	userID, ok := UserIDFrom(ctx)
	if !ok {
		return nil
	}

	ref, err := s.ownedReference(ctx, userID, referenceID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteReference(ctx, ref.ID); err != nil {
		return err
	}

	s.invalidate(ctx, ref.SourceStudyID)
	return nil
}

// Reorder swaps the reference's display order with its neighbor in the
// requested direction. At the first/last position the call is a no-op and
// the current order is returned unchanged. Calls for the same study are
// serialized.
func (s *ReferenceService) Reorder(ctx context.Context, referenceID, direction string) (*v1.ReorderReferenceResponse, error) {
	userID, ok := UserIDFrom(ctx)
	if !ok {
		return &v1.ReorderReferenceResponse{References: []*v1.Reference{}}, nil
	}

	if direction != v1.DirectionUp && direction != v1.DirectionDown {
		return nil, ErrInvalidDirection
	}

	ref, err := s.ownedReference(ctx, userID, referenceID)
	if err != nil {
		return nil, err
	}

	lock := s.studyLock(ref.SourceStudyID)
	lock.Lock()
	defer lock.Unlock()

	var refs []*model.Reference

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		refs, err = tx.ListReferences(ctx, ref.SourceStudyID)
		if err != nil {
			return err
		}

		pos := -1
		for i, r := range refs {
			if r.ID == ref.ID {
				pos = i
				break
			}
		}
		if pos == -1 {
			return ErrReferenceNotFound
		}

		neighbor := pos - 1
		if direction == v1.DirectionDown {
			neighbor = pos + 1
		}

		// already first or last
		if neighbor < 0 || neighbor >= len(refs) {
			return nil
		}

		a, b := refs[pos], refs[neighbor]
		if err := tx.UpdateDisplayOrder(ctx, a.ID, b.DisplayOrder); err != nil {
			return err
		}
		if err := tx.UpdateDisplayOrder(ctx, b.ID, a.DisplayOrder); err != nil {
			return err
		}

		a.DisplayOrder, b.DisplayOrder = b.DisplayOrder, a.DisplayOrder
		refs[pos], refs[neighbor] = b, a

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, ref.SourceStudyID)

	return &v1.ReorderReferenceResponse{References: toAPIReferences(refs)}, nil
}

// ownedReference fetches a reference and checks the caller owns its source
// study.
func (s *ReferenceService) ownedReference(ctx context.Context, userID, referenceID string) (*model.Reference, error) {
	ref, err := s.store.GetReference(ctx, referenceID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrReferenceNotFound
		}
		return nil, err
	}

	owned, err := s.store.ExistsStudy(ctx, userID, ref.SourceStudyID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrReferenceNotFound
	}

	return ref, nil
}

func (s *ReferenceService) invalidate(ctx context.Context, studyID string) {
	if err := s.cache.DeleteReferences(ctx, studyID); err != nil {
		logrus.Errorf("error invalidating reference cache for study %s: %v", studyID, err)
	}
}

func toAPIReferences(refs []*model.Reference) []*v1.Reference {
	out := make([]*v1.Reference, 0, len(refs))
	for _, ref := range refs {
		out = append(out, toAPIReference(ref))
	}
	return out
}

func toAPIReference(ref *model.Reference) *v1.Reference {
	c := links.Classify(ref)

	api := &v1.Reference{
		ID:              ref.ID,
		SourceStudyID:   ref.SourceStudyID,
		TargetStudyID:   ref.TargetStudyID,
		LinkType:        ref.LinkType,
		ExternalURL:     ref.ExternalURL,
		IsBidirectional: ref.IsBidirectional,
		DisplayOrder:    ref.DisplayOrder,
		Kind:            c.Kind.String(),
		Color:           c.Color,
		Label:           c.Label,
		CreatedAt:       ref.CreatedAt,
	}

	if _, ok := ref.Internal(); ok {
		api.TargetTitle = ref.TargetTitle
		api.TargetBookName = ref.TargetBookName
		api.TargetChapter = ref.TargetChapterNumber
		api.TargetTags = decodeTags(ref.TargetTags)
	}

	return api
}
