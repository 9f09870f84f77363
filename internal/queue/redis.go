package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	redis "github.com/redis/go-redis/v9"
)

var _ StudyQueue = (*RedisStudyQueue)(nil)

// RedisStudyQueue is a redis list backed StudyQueue.
type RedisStudyQueue struct {
	client *redis.Client
}

func NewRedisStudyQueue(client *redis.Client) *RedisStudyQueue {
	return &RedisStudyQueue{client: client}
}

func (q *RedisStudyQueue) PublishChange(ctx context.Context, event *StudyEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return q.client.RPush(ctx, StudyIndexQueue, data).Err()
}

func (q *RedisStudyQueue) Drain(ctx context.Context, max int) ([]*StudyEvent, error) {
	events := make([]*StudyEvent, 0, max)

	for len(events) < max {
		res := q.client.LPop(ctx, StudyIndexQueue)
		if res.Err() != nil {
			if errors.Is(res.Err(), redis.Nil) {
				break
			}
			return events, res.Err()
		}

		var event StudyEvent
		if err := json.Unmarshal([]byte(res.Val()), &event); err != nil {
			return events, err
		}

		events = append(events, &event)
	}

	return events, nil
}

// MemoryStudyQueue is the in-process queue used in tests and when redis is
// not configured.
type MemoryStudyQueue struct {
	mu     sync.Mutex
	events []*StudyEvent
}

var _ StudyQueue = (*MemoryStudyQueue)(nil)

func NewMemoryStudyQueue() *MemoryStudyQueue {
	return &MemoryStudyQueue{}
}

func (q *MemoryStudyQueue) PublishChange(ctx context.Context, event *StudyEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = append(q.events, event)
	return nil
}

func (q *MemoryStudyQueue) Drain(ctx context.Context, max int) ([]*StudyEvent, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if max > len(q.events) {
		max = len(q.events)
	}

	out := q.events[:max]
	q.events = q.events[max:]
	return out, nil
}
