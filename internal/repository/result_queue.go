package repository

import (
	"context"
	"encoding/json"

	"github.com/medprep/neetpg-backend/internal/config"
	"github.com/medprep/neetpg-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// ResultQueue publishes finished attempts onto the Redis persistence
// queue consumed by the result worker.
type ResultQueue struct {
	rdb *redis.Client
}

// NewResultQueue creates a new ResultQueue.
func NewResultQueue(rdb *redis.Client) *ResultQueue {
	return &ResultQueue{rdb: rdb}
}

// Publish enqueues an attempt for asynchronous persistence.
func (q *ResultQueue) Publish(ctx context.Context, a *model.Attempt) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return q.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw).Err()
}
