package jobs

import (
	"context"

	"github.com/Tiag8/bible-study-sub001/internal/queue"
	"github.com/Tiag8/bible-study-sub001/internal/search"
	"github.com/sirupsen/logrus"
)

const indexSyncBatch = 100

// IndexSync drains the study change queue into the bleve index. Running it
// outside the request path keeps study writes fast, search only lags by
// one tick.
type IndexSync struct {
	queue queue.StudyQueue
	index *search.Index
}

func NewIndexSync(queue queue.StudyQueue, index *search.Index) *IndexSync {
	return &IndexSync{
		queue: queue,
		index: index,
	}
}

func (s *IndexSync) Run() {
	ctx := context.Background()

	for {
		events, err := s.queue.Drain(ctx, indexSyncBatch)
		if err != nil {
			logrus.Errorf("error draining index queue: %v", err)
			return
		}
		if len(events) == 0 {
			return
		}

		for _, event := range events {
			switch event.Kind {
			case queue.EventDelete:
				err = s.index.DeleteStudy(event.StudyID)
			default:
				err = s.index.IndexStudy(event.StudyID, event.UserID, event.Title, event.Content, nil)
			}
			if err != nil {
				logrus.Errorf("error applying index event for study %s: %v", event.StudyID, err)
			}
		}

		if len(events) < indexSyncBatch {
			return
		}
	}
}
