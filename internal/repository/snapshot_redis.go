package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/medprep/neetpg-backend/internal/config"
	"github.com/medprep/neetpg-backend/internal/quiz"
	"github.com/redis/go-redis/v9"
)

// Paused sessions survive for a week before Redis reclaims them.
const snapshotTTL = 7 * 24 * time.Hour

// SnapshotStore persists quiz session snapshots in Redis, one slot per
// user. It produces per-user quiz.Gateway views via ForUser.
type SnapshotStore struct {
	rdb *redis.Client
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(rdb *redis.Client) *SnapshotStore {
	return &SnapshotStore{rdb: rdb}
}

// ForUser returns a quiz.Gateway scoped to a single user's snapshot slot.
func (s *SnapshotStore) ForUser(userID string) quiz.Gateway {
	return &userGateway{rdb: s.rdb, key: config.CacheKey.SessionSnapshotKey(userID)}
}

type userGateway struct {
	rdb *redis.Client
	key string
}

func (g *userGateway) Save(ctx context.Context, snap *quiz.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return g.rdb.Set(ctx, g.key, raw, snapshotTTL).Err()
}

func (g *userGateway) Load(ctx context.Context) (*quiz.Snapshot, error) {
	raw, err := g.rdb.Get(ctx, g.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap quiz.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (g *userGateway) Clear(ctx context.Context) error {
	return g.rdb.Del(ctx, g.key).Err()
}
