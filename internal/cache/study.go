package cache

import (
	"context"
	"time"

	"github.com/Tiag8/bible-study-sub001/internal/model"
)

const (
	studyTTL      = 10 * time.Minute
	referencesTTL = 5 * time.Minute
)

func studyKey(id string) string {
	return "study:" + id
}

func referencesKey(sourceStudyID string) string {
	return "study:references:" + sourceStudyID
}

var _ StudyCache = (*RedisStudyCache)(nil)

// RedisStudyCache is the redis-backed StudyCache.
type RedisStudyCache struct {
	redis *Redis
}

func NewRedisStudyCache(redis *Redis) *RedisStudyCache {
	return &RedisStudyCache{redis: redis}
}

func (r *RedisStudyCache) GetStudy(ctx context.Context, id string) (*model.Study, error) {
	var study model.Study
	ok, err := r.redis.Get(ctx, studyKey(id), &study)
	if err != nil || !ok {
		return nil, err
	}
	return &study, nil
}

func (r *RedisStudyCache) SetStudy(ctx context.Context, study *model.Study) error {
	return r.redis.Set(ctx, studyKey(study.ID), study, studyTTL)
}

func (r *RedisStudyCache) DeleteStudy(ctx context.Context, id string) error {
	return r.redis.Delete(ctx, studyKey(id))
}

func (r *RedisStudyCache) GetReferences(ctx context.Context, sourceStudyID string) ([]*model.Reference, error) {
	var refs []*model.Reference
	ok, err := r.redis.Get(ctx, referencesKey(sourceStudyID), &refs)
	if err != nil || !ok {
		return nil, err
	}
	return refs, nil
}

func (r *RedisStudyCache) SetReferences(ctx context.Context, sourceStudyID string, refs []*model.Reference) error {
	return r.redis.Set(ctx, referencesKey(sourceStudyID), refs, referencesTTL)
}

func (r *RedisStudyCache) DeleteReferences(ctx context.Context, sourceStudyID string) error {
	return r.redis.Delete(ctx, referencesKey(sourceStudyID))
}

// NullStudyCache is the no-op cache used when redis is not configured and
// in tests.
type NullStudyCache struct{}

var _ StudyCache = (*NullStudyCache)(nil)

func NewNullStudyCache() *NullStudyCache {
	return &NullStudyCache{}
}

func (NullStudyCache) GetStudy(ctx context.Context, id string) (*model.Study, error) {
	return nil, nil
}

func (NullStudyCache) SetStudy(ctx context.Context, study *model.Study) error {
	return nil
}

func (NullStudyCache) DeleteStudy(ctx context.Context, id string) error {
	return nil
}

func (NullStudyCache) GetReferences(ctx context.Context, sourceStudyID string) ([]*model.Reference, error) {
	return nil, nil
}

func (NullStudyCache) SetReferences(ctx context.Context, sourceStudyID string, refs []*model.Reference) error {
	return nil
}

func (NullStudyCache) DeleteReferences(ctx context.Context, sourceStudyID string) error {
	return nil
}
