package jobs

import (
	"context"
	"time"

	"github.com/Tiag8/bible-study-sub001/internal/store"
	goset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
)

// RevisionCleaner thins out study revisions: recent revisions are kept
// dense, older ones are spaced so that only one snapshot per window
// survives. The newest revision inside a window is always kept.
type RevisionCleaner struct {
	store store.Store
	done  chan struct{}
}

func NewRevisionCleaner(store store.Store) *RevisionCleaner {
	return &RevisionCleaner{
		store: store,
		done:  make(chan struct{}),
	}
}

func (c *RevisionCleaner) Stop() {
	close(c.done)
}

func (c *RevisionCleaner) Run() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.clean()
		}
	}
}

func (c *RevisionCleaner) clean() {
	c.window(10 * time.Minute)
}

// window keeps one revision per duration bucket among the revisions
// created inside the last two durations.
func (c *RevisionCleaner) window(duration time.Duration) {
	now := time.Now()

	revs, err := c.store.ListStudyRevisionsCreatedBetween(context.TODO(), now.Add(-2*duration), now.Add(-duration))
	if err != nil {
		logrus.Errorf("error listing study revisions: %v", err)
		return
	}

	remove := make(map[string]goset.Set[int64])
	seen := make(map[string]time.Time)
	for _, rev := range revs {
		bucket := rev.CreatedAt.Round(duration)

		last, ok := seen[rev.ID]
		if !ok || !bucket.Equal(last) {
			seen[rev.ID] = bucket
			continue
		}

		if _, ok := remove[rev.ID]; !ok {
			remove[rev.ID] = goset.NewSet[int64]()
		}
		remove[rev.ID].Add(rev.Version)
	}

	for studyID, versions := range remove {
		if err := c.store.DeleteStudyRevisions(context.TODO(), studyID, versions.ToSlice()); err != nil {
			logrus.Errorf("error pruning revisions of study %s: %v", studyID, err)
		}
	}
}
