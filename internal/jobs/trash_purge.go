package jobs

import (
	"context"
	"time"

	"github.com/Tiag8/bible-study-sub001/internal/search"
	"github.com/Tiag8/bible-study-sub001/internal/store"
	"github.com/sirupsen/logrus"
)

// TrashPurge erases soft-deleted studies once their retention window has
// passed, together with their references, revisions and index entries.
// Until the purge runs a study in the trash stays restorable.
type TrashPurge struct {
	store     store.Store
	index     *search.Index
	retention time.Duration
	cron      string
}

func NewTrashPurge(cron string, store store.Store, index *search.Index, retention time.Duration) *TrashPurge {
	return &TrashPurge{
		store:     store,
		index:     index,
		retention: retention,
		cron:      cron,
	}
}

func (t *TrashPurge) Schedule() string {
	return t.cron
}

func (t *TrashPurge) Run() {
	ctx := context.Background()
	cutoff := time.Now().Add(-t.retention)

	studies, err := t.store.ListStudiesDeletedBefore(ctx, cutoff)
	if err != nil {
		logrus.Errorf("error listing expired studies: %v", err)
		return
	}

	for _, study := range studies {
		err := t.store.Transaction(ctx, func(tx store.Store) error {
			if err := tx.DeleteReferencesOfStudy(ctx, study.ID); err != nil {
				return err
			}
			if err := tx.DeleteStudyIndex(ctx, study.ID); err != nil {
				return err
			}
			return tx.EraseStudy(ctx, study.ID)
		})
		if err != nil {
			logrus.Errorf("error purging study %s: %v", study.ID, err)
			continue
		}

		if err := t.index.DeleteStudy(study.ID); err != nil {
			logrus.Errorf("error removing study %s from search index: %v", study.ID, err)
		}
	}

	if len(studies) > 0 {
		logrus.Infof("purged %d expired studies", len(studies))
	}
}
