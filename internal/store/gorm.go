package store

import (
	"context"
	"errors"
	"time"

	"github.com/Tiag8/bible-study-sub001/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateStudy(ctx context.Context, study *model.Study) error {
	return g.db.WithContext(ctx).Create(study).Error
}

func (g *GormStore) GetStudy(ctx context.Context, userID, id string) (*model.Study, error) {
	var study model.Study
	err := g.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&study).Error
	if err != nil {
		return nil, err
	}
	return &study, nil
}

func (g *GormStore) ListStudies(ctx context.Context, userID, bookName string, chapter int) ([]*model.Study, int64, error) {
	var studies []*model.Study
	q := g.db.WithContext(ctx).Where("user_id = ?", userID)
	if bookName != "" {
		q = q.Where("book_name = ?", bookName)
	}
	if chapter > 0 {
		q = q.Where("chapter_number = ?", chapter)
	}

	var total int64
	if err := q.Model(&model.Study{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("updated_at desc").Find(&studies).Error
	return studies, total, err
}

func (g *GormStore) UpdateStudy(ctx context.Context, study *model.Study) error {
	return g.db.WithContext(ctx).Save(study).Error
}

func (g *GormStore) DeleteStudy(ctx context.Context, userID, id string) (bool, error) {
	res := g.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Study{})
	return res.RowsAffected > 0, res.Error
}

func (g *GormStore) RestoreStudy(ctx context.Context, userID, id string) (bool, error) {
	res := g.db.WithContext(ctx).Unscoped().Model(&model.Study{}).
		Where("id = ? AND user_id = ? AND deleted_at IS NOT NULL", id, userID).
		Update("deleted_at", nil)
	return res.RowsAffected > 0, res.Error
}

func (g *GormStore) ListDeletedStudies(ctx context.Context, userID string) ([]*model.Study, error) {
	var studies []*model.Study
	err := g.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND deleted_at IS NOT NULL", userID).
		Order("deleted_at desc").
		Find(&studies).Error
	return studies, err
}

func (g *GormStore) ListStudiesDeletedBefore(ctx context.Context, cutoff time.Time) ([]*model.Study, error) {
	var studies []*model.Study
	err := g.db.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&studies).Error
	return studies, err
}

func (g *GormStore) EraseStudy(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&model.Study{}).Error
}

func (g *GormStore) ExistsStudy(ctx context.Context, userID, id string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Study{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error
	return count > 0, err
}

func (g *GormStore) UpsertStudyIndex(ctx context.Context, idx *model.StudyIndex) error {
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "study_id"}},
		UpdateAll: true,
	}).Create(idx).Error
}

func (g *GormStore) ListStudyIndexes(ctx context.Context, userID string) ([]*model.StudyIndex, error) {
	var rows []*model.StudyIndex
	err := g.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error
	return rows, err
}

func (g *GormStore) DeleteStudyIndex(ctx context.Context, studyID string) error {
	return g.db.WithContext(ctx).Where("study_id = ?", studyID).Delete(&model.StudyIndex{}).Error
}

func (g *GormStore) ListReferences(ctx context.Context, sourceStudyID string) ([]*model.Reference, error) {
	refs := make([]*model.Reference, 0)
	err := g.db.WithContext(ctx).
		Where("source_study_id = ?", sourceStudyID).
		Order("display_order asc, created_at asc").
		Find(&refs).Error
	return refs, err
}

func (g *GormStore) GetReference(ctx context.Context, id string) (*model.Reference, error) {
	var ref model.Reference
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&ref).Error
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (g *GormStore) CreateReferences(ctx context.Context, refs []*model.Reference) error {
	if len(refs) == 0 {
		return nil
	}
	return g.db.WithContext(ctx).Create(refs).Error
}

func (g *GormStore) DeleteReference(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Reference{}).Error
}

func (g *GormStore) NextDisplayOrder(ctx context.Context, sourceStudyID string) (int, error) {
	var max *int
	err := g.db.WithContext(ctx).Model(&model.Reference{}).
		Where("source_study_id = ?", sourceStudyID).
		Select("MAX(display_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

func (g *GormStore) UpdateDisplayOrder(ctx context.Context, id string, order int) error {
	return g.db.WithContext(ctx).Model(&model.Reference{}).
		Where("id = ?", id).
		Update("display_order", order).Error
}

func (g *GormStore) ListReverseOrphans(ctx context.Context) ([]*model.Reference, error) {
	var refs []*model.Reference
	err := g.db.WithContext(ctx).
		Where(`is_bidirectional = ? AND link_type = ? AND NOT EXISTS (
			SELECT 1 FROM study_references fwd
			WHERE fwd.is_bidirectional = ?
			AND fwd.source_study_id = study_references.target_study_id
			AND fwd.target_study_id = study_references.source_study_id
		)`, false, model.LinkTypeInternal, true).
		Find(&refs).Error
	return refs, err
}

func (g *GormStore) ListReferenceSourceIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := g.db.WithContext(ctx).Model(&model.Reference{}).
		Distinct("source_study_id").
		Pluck("source_study_id", &ids).Error
	return ids, err
}

func (g *GormStore) RenormalizeDisplayOrder(ctx context.Context, sourceStudyID string) error {
	refs, err := g.ListReferences(ctx, sourceStudyID)
	if err != nil {
		return err
	}

	for i, ref := range refs {
		if ref.DisplayOrder == i {
			continue
		}
		if err := g.UpdateDisplayOrder(ctx, ref.ID, i); err != nil {
			return err
		}
	}

	return nil
}

func (g *GormStore) DeleteReferencesOfStudy(ctx context.Context, studyID string) error {
	return g.db.WithContext(ctx).
		Where("source_study_id = ? OR target_study_id = ?", studyID, studyID).
		Delete(&model.Reference{}).Error
}

func (g *GormStore) CreateStudyRevision(ctx context.Context, rev *model.StudyRevision) error {
	return g.db.WithContext(ctx).Create(rev).Error
}

func (g *GormStore) ListStudyRevisions(ctx context.Context, studyID string) ([]*model.StudyRevision, error) {
	var revs []*model.StudyRevision
	err := g.db.WithContext(ctx).Where("id = ?", studyID).Order("version desc").Find(&revs).Error
	return revs, err
}

func (g *GormStore) DeleteStudyRevisions(ctx context.Context, studyID string, versions []int64) error {
	if len(versions) == 0 {
		return nil
	}
	return g.db.WithContext(ctx).
		Where("id = ? AND version IN (?)", studyID, versions).
		Delete(&model.StudyRevision{}).Error
}

func (g *GormStore) ListStudyRevisionsCreatedBetween(ctx context.Context, from, to time.Time) ([]*model.StudyRevision, error) {
	var revs []*model.StudyRevision
	err := g.db.WithContext(ctx).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at asc").
		Find(&revs).Error
	return revs, err
}

func (g *GormStore) ListBooks(ctx context.Context) ([]*model.Book, error) {
	var books []*model.Book
	err := g.db.WithContext(ctx).Order("position asc").Find(&books).Error
	return books, err
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}

// IsNotFound reports whether the error is a missing-row error from the
// underlying database.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// MustMigrate is a convenience for command paths that cannot continue
// without a schema.
func MustMigrate(s Store) {
	if err := s.Migrate(); err != nil {
		logrus.Fatalf("error migrating database: %v", err)
	}
}
