package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/medprep/neetpg-backend/internal/config"
	"github.com/medprep/neetpg-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// The corpus only changes when the seeder runs; five minutes keeps pool
// building off the database without a manual invalidation hook.
const corpusTTL = 5 * time.Minute

// CorpusCache serves the question corpus from Redis, falling back to
// PostgreSQL on a miss. Every new quiz session reads the full corpus, so
// this sits directly on the session start path.
type CorpusCache struct {
	questions *QuestionRepository
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewCorpusCache creates a new CorpusCache.
func NewCorpusCache(questions *QuestionRepository, rdb *redis.Client, log zerolog.Logger) *CorpusCache {
	return &CorpusCache{
		questions: questions,
		rdb:       rdb,
		log:       log.With().Str("component", "corpus_cache").Logger(),
	}
}

// ListAll returns the full question corpus, cached.
func (c *CorpusCache) ListAll(ctx context.Context) ([]model.Question, error) {
	key := config.CacheKey.CorpusKey()

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var corpus []model.Question
		if err := json.Unmarshal(raw, &corpus); err == nil {
			return corpus, nil
		}
		// Unreadable cache entry; rebuild it below.
		c.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn().Err(err).Msg("Corpus cache read failed, falling back to database")
	}

	corpus, err := c.questions.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(corpus); err == nil {
		if err := c.rdb.Set(ctx, key, encoded, corpusTTL).Err(); err != nil {
			c.log.Warn().Err(err).Msg("Corpus cache write failed")
		}
	}

	return corpus, nil
}

// Prewarm loads the corpus into Redis before the server accepts traffic.
func (c *CorpusCache) Prewarm(ctx context.Context) error {
	_, err := c.ListAll(ctx)
	return err
}
