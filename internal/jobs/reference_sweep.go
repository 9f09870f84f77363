package jobs

import (
	"context"

	"github.com/Tiag8/bible-study-sub001/internal/cache"
	"github.com/Tiag8/bible-study-sub001/internal/store"
	goset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
)

// ReferenceSweep collects materialized reverse rows whose forward partner
// was deleted, then renormalizes the display order of every study it
// touched so the sequence stays dense.
type ReferenceSweep struct {
	store store.Store
	cache cache.StudyCache
	cron  string
}

func NewReferenceSweep(cron string, store store.Store, cache cache.StudyCache) *ReferenceSweep {
	return &ReferenceSweep{
		store: store,
		cache: cache,
		cron:  cron,
	}
}

func (r *ReferenceSweep) Schedule() string {
	return r.cron
}

func (r *ReferenceSweep) Run() {
	ctx := context.Background()

	orphans, err := r.store.ListReverseOrphans(ctx)
	if err != nil {
		logrus.Errorf("error listing orphaned reverse references: %v", err)
		return
	}

	touched := goset.NewSet[string]()
	for _, orphan := range orphans {
		if err := r.store.DeleteReference(ctx, orphan.ID); err != nil {
			logrus.Errorf("error deleting orphaned reference %s: %v", orphan.ID, err)
			continue
		}
		touched.Add(orphan.SourceStudyID)
	}

	for studyID := range touched.Iter() {
		if err := r.store.RenormalizeDisplayOrder(ctx, studyID); err != nil {
			logrus.Errorf("error renormalizing display order for study %s: %v", studyID, err)
		}
		// a cached list could otherwise serve swept rows until its TTL
		if err := r.cache.DeleteReferences(ctx, studyID); err != nil {
			logrus.Errorf("error evicting reference cache for study %s: %v", studyID, err)
		}
	}

	if len(orphans) > 0 {
		logrus.Infof("swept %d orphaned reverse references", len(orphans))
	}
}
